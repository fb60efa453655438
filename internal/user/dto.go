package user

// CreateUserInput carries a new account. Empty optional strings are stored as NULL.
type CreateUserInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Designation string
	Role        Role
	Country     string
	Areas       []string
	Phone       string
	Avatar      string
	Birthday    string
}

type UsersResponse struct {
	Users []*User `json:"users"`
}

// LandingResponse is served by the guarded dashboard and admin entry points.
type LandingResponse struct {
	Page   string `json:"page"`
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
