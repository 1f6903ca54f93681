package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/platform/httperr"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return httperr.Validation("First name and last name are required")
	}
	if p.Phone == "" {
		return httperr.Validation("Phone is required")
	}
	if !validGenders[p.Gender] {
		return httperr.Validation("Gender must be male, female or other")
	}

	if p.Email != "" {
		if _, err := s.patients.GetByEmail(ctx, p.Email); err == nil {
			return httperr.Conflict("Patient with this email already exists")
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}

	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("Patient not found")
	}
	return p, err
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	existing, err := s.Get(ctx, p.ID)
	if err != nil {
		return err
	}

	if !validGenders[p.Gender] {
		return httperr.Validation("Gender must be male, female or other")
	}

	if p.Email != "" && p.Email != existing.Email {
		if other, err := s.patients.GetByEmail(ctx, p.Email); err == nil && other.ID != p.ID {
			return httperr.Conflict("Patient with this email already exists")
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}

	return s.patients.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.patients.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, params, limit, offset)
}

func (s *Service) TotalCount(ctx context.Context) (int, error) {
	return s.patients.Count(ctx)
}
