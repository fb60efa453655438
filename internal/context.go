package internal

import (
	"context"
	"strconv"
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

// Identity is the verified caller placed on the request context by the route guard.
type Identity struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (i Identity) UserIDString() string {
	return strconv.FormatInt(i.UserID, 10)
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(ContextIdentityKey).(Identity)
	return id, ok
}
