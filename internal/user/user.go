package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	userDatamodel "github.com/Affo25/imsdashboard/internal/core/datamodel/user"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleUser        Role = "user"
	RoleManager     Role = "manager"
	RoleSales       Role = "sales"
	RoleAccounts    Role = "accounts"
	RoleMarketing   Role = "marketing"
	RoleDevelopment Role = "development"
)

// AllRoles lists every role in declaration order.
var AllRoles = []Role{RoleAdmin, RoleUser, RoleManager, RoleSales, RoleAccounts, RoleMarketing, RoleDevelopment}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// User is the domain view of an account. The hash never leaves the service.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name,omitempty"`
	Designation  string    `json:"designation,omitempty"`
	Role         Role      `json:"type"`
	Country      string    `json:"country,omitempty"`
	Areas        []string  `json:"areas"`
	Phone        string    `json:"phone,omitempty"`
	Status       Status    `json:"status"`
	Avatar       string    `json:"avatar,omitempty"`
	Birthday     string    `json:"birthday,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsActiveUser() bool {
	return u.Status == StatusActive
}

// Summary is the reduced shape returned by login and /me.
type Summary struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Role      Role   `json:"type"`
	Status    Status `json:"status"`
}

func (u *User) ToSummary() Summary {
	return Summary{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Status:    u.Status,
	}
}

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrPersistence    = errors.New("user persistence failure")
)

// EncodeAreas turns the areas list into its stored text form. Only a nil list
// is stored as NULL; an empty list is kept as "[]".
func EncodeAreas(areas []string) (*string, error) {
	if areas == nil {
		return nil, nil
	}
	b, err := json.Marshal(areas)
	if err != nil {
		return nil, fmt.Errorf("encode areas: %w", err)
	}
	s := string(b)
	return &s, nil
}

func DecodeAreas(raw *string) ([]string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var areas []string
	if err := json.Unmarshal([]byte(*raw), &areas); err != nil {
		return nil, fmt.Errorf("decode areas: %w", err)
	}
	return areas, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ToDataModel(u *User) (*userDatamodel.User, error) {
	areas, err := EncodeAreas(u.Areas)
	if err != nil {
		return nil, err
	}
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     nullable(u.LastName),
		Designation:  nullable(u.Designation),
		Type:         string(u.Role),
		Country:      nullable(u.Country),
		Areas:        areas,
		Phone:        nullable(u.Phone),
		Status:       string(u.Status),
		Avatar:       nullable(u.Avatar),
		Birthday:     nullable(u.Birthday),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}, nil
}

// FromDataModel converts a row into the domain user, keeping the hash.
// Callers outside this package only ever see the result of Sanitize.
func FromDataModel(u *userDatamodel.User) (*User, error) {
	areas, err := DecodeAreas(u.Areas)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     deref(u.LastName),
		Designation:  deref(u.Designation),
		Role:         Role(u.Type),
		Country:      deref(u.Country),
		Areas:        areas,
		Phone:        deref(u.Phone),
		Status:       Status(u.Status),
		Avatar:       deref(u.Avatar),
		Birthday:     deref(u.Birthday),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}, nil
}

// Sanitize strips the password hash.
func (u *User) Sanitize() *User {
	u.PasswordHash = ""
	return u
}
