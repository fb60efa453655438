package auth

import (
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/Affo25/imsdashboard/internal"
	"github.com/Affo25/imsdashboard/internal/transport"
	"github.com/Affo25/imsdashboard/internal/user"
	"github.com/Affo25/imsdashboard/pkg/logger"
)

// RouteRule restricts every path under Prefix to the listed roles.
type RouteRule struct {
	Prefix string
	Roles  []user.Role
}

func (r RouteRule) Allows(role user.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// RouteTable classifies request paths. It is read-only after construction.
type RouteTable struct {
	public []string
	rules  []RouteRule
}

// NewRouteTable orders rules so the longest matching prefix wins.
func NewRouteTable(public []string, rules []RouteRule) *RouteTable {
	sorted := make([]RouteRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &RouteTable{
		public: append([]string(nil), public...),
		rules:  sorted,
	}
}

func DefaultRouteTable() *RouteTable {
	return NewRouteTable(
		[]string{
			"/",
			"/login",
			"/register",
			"/api/auth/login",
			"/api/auth/register",
			"/api/auth/logout",
		},
		[]RouteRule{
			{Prefix: "/dashboard", Roles: user.AllRoles},
			{Prefix: "/admin", Roles: []user.Role{user.RoleAdmin}},
			{Prefix: "/api/admin", Roles: []user.Role{user.RoleAdmin}},
			{Prefix: "/api/users", Roles: []user.Role{user.RoleAdmin, user.RoleManager}},
		},
	)
}

func (t *RouteTable) IsPublic(path string) bool {
	for _, p := range t.public {
		if matchesPrefix(path, p) {
			return true
		}
	}
	return false
}

// Match returns the most specific protected rule covering path.
func (t *RouteTable) Match(path string) (RouteRule, bool) {
	for _, rule := range t.rules {
		if matchesPrefix(path, rule.Prefix) {
			return rule, true
		}
	}
	return RouteRule{}, false
}

// matchesPrefix compares whole path segments. The root prefix only matches "/" itself.
func matchesPrefix(path, prefix string) bool {
	if prefix == "/" {
		return path == "/"
	}
	prefix = strings.TrimSuffix(prefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

type Decision int

const (
	DecisionAllow Decision = iota
	DecisionUnauthenticated
	DecisionForbidden
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionUnauthenticated:
		return "unauthenticated"
	case DecisionForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

type TokenVerifier interface {
	Verify(tokenString string) (*Claims, error)
}

// Guard gates every request against the route table before any handler runs.
type Guard struct {
	*transport.BaseHandler
	routes    *RouteTable
	tokens    TokenVerifier
	loginPath string
}

func NewGuard(routes *RouteTable, tokens TokenVerifier, lg *slog.Logger) *Guard {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Guard{
		BaseHandler: transport.NewBaseHandler(lg),
		routes:      routes,
		tokens:      tokens,
		loginPath:   "/login",
	}
}

// Evaluate classifies r. Claims are returned only when a protected route was
// passed with a verified token.
func (g *Guard) Evaluate(r *http.Request) (Decision, *Claims) {
	path := r.URL.Path

	if g.routes.IsPublic(path) {
		return DecisionAllow, nil
	}

	rule, protected := g.routes.Match(path)
	if !protected {
		return DecisionAllow, nil
	}

	token := ExtractTokenFromRequest(r)
	if token == "" {
		return DecisionUnauthenticated, nil
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return DecisionUnauthenticated, nil
	}

	if !rule.Allows(user.Role(claims.Role)) {
		return DecisionForbidden, claims
	}

	return DecisionAllow, claims
}

func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision, claims := g.Evaluate(r)

		switch decision {
		case DecisionUnauthenticated:
			g.Logger.DebugContext(r.Context(), "route guard: unauthenticated", "path", r.URL.Path)
			if isAPIPath(r.URL.Path) {
				g.WriteAppError(w, internal.ErrUnauthorized)
				return
			}
			http.Redirect(w, r, g.loginURL(r.URL.Path), http.StatusFound)
			return

		case DecisionForbidden:
			logger.From(r.Context()).WarnContext(r.Context(), "access denied: insufficient permissions",
				"user_id", claims.UserID,
				"role", claims.Role,
				"path", r.URL.Path)
			g.WriteAppError(w, internal.ErrInsufficientPermissions)
			return
		}

		if claims != nil {
			ctx := internal.WithIdentity(r.Context(), claims.Identity())
			ctx = logger.WithUser(ctx, claims.UserID, claims.Role)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Guard) loginURL(target string) string {
	u := url.URL{
		Path:     g.loginPath,
		RawQuery: url.Values{"redirect": {target}}.Encode(),
	}
	return u.String()
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
