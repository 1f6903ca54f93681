package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
)

type Service struct {
	users  Repository
	tokens *auth.TokenIssuer
}

func NewService(users Repository, tokens *auth.TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// RegisterInput carries the fields accepted when creating an account.
type RegisterInput struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Role      string  `json:"role"`
	Phone     *string `json:"phone"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" || in.Role == "" {
		return nil, httperr.Validation("Email, password, first name, last name and role are required")
	}
	if !auth.ValidRoles[in.Role] {
		return nil, httperr.Validation("Invalid role: %s", in.Role)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, httperr.Conflict("User with this email already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		Phone:        in.Phone,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	if email == "" || password == "" {
		return "", nil, httperr.Validation("Email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, httperr.Authentication("Invalid email or password")
	}
	if err != nil {
		return "", nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, httperr.Authentication("Invalid email or password")
	}
	if !u.IsActive {
		return "", nil, httperr.Authentication("Account is deactivated")
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("User not found")
	}
	return u, err
}

// UpdateProfile is the self-service update: name and phone only.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName string, phone *string) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if firstName != "" {
		u.FirstName = firstName
	}
	if lastName != "" {
		u.LastName = lastName
	}
	if phone != nil {
		u.Phone = phone
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, newPassword string) error {
	if current == "" || newPassword == "" {
		return httperr.Validation("Current and new password are required")
	}
	if len(newPassword) < 6 {
		return httperr.Validation("Password must be at least 6 characters")
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, current) {
		return httperr.Validation("Current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

// AdminUpdate lets an administrator change account fields including the role.
func (s *Service) AdminUpdate(ctx context.Context, u *User) (*User, error) {
	existing, err := s.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	if u.Role != "" && !auth.ValidRoles[u.Role] {
		return nil, httperr.Validation("Invalid role: %s", u.Role)
	}

	if u.Email != "" && u.Email != existing.Email {
		if other, err := s.users.GetByEmail(ctx, u.Email); err == nil && other.ID != u.ID {
			return nil, httperr.Conflict("User with this email already exists")
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		existing.Email = u.Email
	}
	if u.FirstName != "" {
		existing.FirstName = u.FirstName
	}
	if u.LastName != "" {
		existing.LastName = u.LastName
	}
	if u.Role != "" {
		existing.Role = u.Role
	}
	if u.Phone != nil {
		existing.Phone = u.Phone
	}

	if err := s.users.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// SetPassword is the admin reset path: no current-password check.
func (s *Service) SetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if len(newPassword) < 6 {
		return httperr.Validation("Password must be at least 6 characters")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

func (s *Service) ToggleStatus(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsActive = !u.IsActive
	if err := s.users.SetActive(ctx, id, u.IsActive); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	if id == callerID {
		return httperr.Validation("Cannot delete your own account")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, params map[string]string, limit, offset int) ([]*User, int, error) {
	return s.users.Search(ctx, params, limit, offset)
}

func (s *Service) ByRole(ctx context.Context, role string) ([]*User, error) {
	if !auth.ValidRoles[role] {
		return nil, httperr.Validation("Invalid role: %s", role)
	}
	return s.users.ListByRole(ctx, role)
}

func (s *Service) Overview(ctx context.Context) (*Stats, error) {
	return s.users.Stats(ctx)
}

// VerifyActive satisfies the auth middleware's account check.
func (s *Service) VerifyActive(ctx context.Context, id uuid.UUID) (bool, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.IsActive, nil
}
