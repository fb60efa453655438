package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	userDatamodel "github.com/Affo25/imsdashboard/internal/core/datamodel/user"
	"github.com/Affo25/imsdashboard/internal/core/events"
	"golang.org/x/crypto/bcrypt"
)

// RepositoryAPI is the persistence port of the credential store. Lookups
// return (nil, nil) when no row matches.
type RepositoryAPI interface {
	Create(ctx context.Context, u *userDatamodel.User) error
	GetActiveByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetActiveByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	TouchUpdatedAt(ctx context.Context, id int64, at time.Time) error
	ListAll(ctx context.Context) ([]*userDatamodel.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
	events     EventPublisher
	now        func() time.Time
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// WithEvents attaches a publisher for account lifecycle events.
func (s *Service) WithEvents(p EventPublisher) *Service {
	s.events = p
	return s
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateUser hashes the password and inserts a new active account.
// Required fields are validated by the caller.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = RoleUser
	}

	row, err := ToDataModel(&User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Designation:  in.Designation,
		Role:         role,
		Country:      in.Country,
		Areas:        in.Areas,
		Phone:        in.Phone,
		Status:       StatusActive,
		Avatar:       in.Avatar,
		Birthday:     in.Birthday,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			s.logger.Warn("registration rejected: duplicate email", "email", in.Email)
			return nil, ErrDuplicateEmail
		}
		s.logger.Error("failed to create user", "email", in.Email, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	u, err := FromDataModel(row)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.publish(ctx, events.NewUserRegisteredEvent(u.ID, u.Email, string(u.Role)))
	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	return u.Sanitize(), nil
}

// Authenticate returns (nil, nil) for an unknown email, an inactive account or
// a wrong password, so callers cannot tell these apart.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	row, err := s.repo.GetActiveByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to look up user for authentication", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if row == nil {
		return nil, nil
	}

	u, err := FromDataModel(row)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !u.IsActiveUser() {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return u.Sanitize(), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetActiveByID(ctx, id)
	return s.single(row, err)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	row, err := s.repo.GetActiveByEmail(ctx, email)
	return s.single(row, err)
}

func (s *Service) single(row *userDatamodel.User, err error) (*User, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if row == nil {
		return nil, ErrNotFound
	}
	u, err := FromDataModel(row)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !u.IsActiveUser() {
		return nil, ErrNotFound
	}
	return u.Sanitize(), nil
}

// TouchLastLogin records the login time. Failures are logged and dropped.
func (s *Service) TouchLastLogin(ctx context.Context, id int64) {
	if err := s.repo.TouchUpdatedAt(ctx, id, s.now()); err != nil {
		s.logger.Warn("failed to update last login", "user_id", id, "error", err)
		return
	}
	s.publish(ctx, events.NewUserLoggedInEvent(id))
}

// ListAll returns every account regardless of status, newest first.
func (s *Service) ListAll(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		u, err := FromDataModel(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		users = append(users, u.Sanitize())
	}
	return users, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
