package auth

import (
	"github.com/Affo25/imsdashboard/internal"
	"github.com/Affo25/imsdashboard/internal/core/common/validation"
	"github.com/Affo25/imsdashboard/internal/user"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	if v.Validate() != nil {
		return internal.NewValidationError("Email and password are required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// RegisterDTO is the body of POST /api/auth/register.
type RegisterDTO struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name,omitempty"`
	Designation string   `json:"designation,omitempty"`
	Type        string   `json:"type,omitempty"`
	Country     string   `json:"country,omitempty"`
	Areas       []string `json:"areas,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Birthday    string   `json:"birthday,omitempty"`
}

const (
	minPasswordLength = 6
	// maxColumnLength matches the VARCHAR(255) columns of the users table.
	maxColumnLength = 255
)

// Validate reports missing fields as one combined message before checking
// formats, so the register form shows a single line.
func (d RegisterDTO) Validate() *internal.AppError {
	required := validation.NewValidator()
	required.Field("email", d.Email).Required()
	required.Field("password", d.Password).Required()
	required.Field("first_name", d.FirstName).Required()
	if required.Validate() != nil {
		return internal.NewValidationError("Email, password, and first name are required", internal.ErrCodeValidationFailed)
	}

	v := validation.NewValidator()
	v.Field("email", d.Email).Email().MaxLength(maxColumnLength)
	v.Field("password", d.Password).
		MinLength(minPasswordLength, "Password must be at least 6 characters long", internal.ErrCodeWeakPassword)
	v.Field("first_name", d.FirstName).MaxLength(maxColumnLength)
	v.Field("last_name", d.LastName).MaxLength(maxColumnLength)
	v.Field("type", d.Type).Custom(func(value interface{}) *internal.AppError {
		if t, _ := value.(string); t != "" && !user.Role(t).Valid() {
			return internal.NewValidationFieldError("type", "Invalid user type", internal.ErrCodeInvalidRole)
		}
		return nil
	})
	return v.Validate()
}

func (d RegisterDTO) ToInput() user.CreateUserInput {
	return user.CreateUserInput{
		Email:       d.Email,
		Password:    d.Password,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Designation: d.Designation,
		Role:        user.Role(d.Type),
		Country:     d.Country,
		Areas:       d.Areas,
		Phone:       d.Phone,
		Birthday:    d.Birthday,
	}
}

type LoginResponse struct {
	Success bool         `json:"success"`
	User    user.Summary `json:"user"`
	Token   string       `json:"token"`
}

type RegisterResponse struct {
	Success bool       `json:"success"`
	User    *user.User `json:"user"`
}

type MeResponse struct {
	User user.Summary `json:"user"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}
