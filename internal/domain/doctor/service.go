package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/platform/httperr"
)

type Service struct {
	doctors Repository
}

func NewService(doctors Repository) *Service {
	return &Service{doctors: doctors}
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if d.UserID == uuid.Nil {
		return httperr.Validation("User id is required")
	}
	if d.Specialization == "" {
		return httperr.Validation("Specialization is required")
	}
	if d.LicenseNumber == "" {
		return httperr.Validation("License number is required")
	}
	if d.Experience < 0 {
		return httperr.Validation("Experience cannot be negative")
	}
	if d.ConsultationFee < 0 {
		return httperr.Validation("Consultation fee cannot be negative")
	}

	if _, err := s.doctors.GetByUserID(ctx, d.UserID); err == nil {
		return httperr.Conflict("Doctor profile already exists for this user")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if _, err := s.doctors.GetByLicense(ctx, d.LicenseNumber); err == nil {
		return httperr.Conflict("Doctor with this license number already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	return s.doctors.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("Doctor not found")
	}
	return d, err
}

// GetByUserID resolves the doctor profile behind a user account. Used to scope
// appointment and dashboard queries to the calling doctor.
func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	d, err := s.doctors.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("Doctor profile not found")
	}
	return d, err
}

func (s *Service) Update(ctx context.Context, d *Doctor) error {
	existing, err := s.Get(ctx, d.ID)
	if err != nil {
		return err
	}

	if d.Specialization == "" {
		return httperr.Validation("Specialization is required")
	}
	if d.Experience < 0 {
		return httperr.Validation("Experience cannot be negative")
	}
	if d.ConsultationFee < 0 {
		return httperr.Validation("Consultation fee cannot be negative")
	}

	if d.LicenseNumber != "" && d.LicenseNumber != existing.LicenseNumber {
		if other, err := s.doctors.GetByLicense(ctx, d.LicenseNumber); err == nil && other.ID != d.ID {
			return httperr.Conflict("Doctor with this license number already exists")
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	} else if d.LicenseNumber == "" {
		d.LicenseNumber = existing.LicenseNumber
	}

	d.UserID = existing.UserID
	return s.doctors.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.doctors.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.Search(ctx, params, limit, offset)
}

func (s *Service) TotalCount(ctx context.Context) (int, error) {
	return s.doctors.Count(ctx)
}
