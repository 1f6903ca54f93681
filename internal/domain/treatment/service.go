package treatment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/domain/doctor"
	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
)

type PatientGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type DoctorGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*doctor.Doctor, error)
}

type Service struct {
	treatments Repository
	patients   PatientGetter
	doctors    DoctorGetter
}

func NewService(treatments Repository, patients PatientGetter, doctors DoctorGetter) *Service {
	return &Service{treatments: treatments, patients: patients, doctors: doctors}
}

// Create records a treatment. A caller with the doctor role is resolved to
// their own doctor profile regardless of the doctor id in the payload.
func (s *Service) Create(ctx context.Context, t *Treatment, callerRole string, callerUserID uuid.UUID) error {
	if callerRole == auth.RoleDoctor {
		d, err := s.doctors.GetByUserID(ctx, callerUserID)
		if err != nil {
			return err
		}
		t.DoctorID = d.ID
	}

	if t.PatientID == uuid.Nil {
		return httperr.Validation("Patient id is required")
	}
	if t.DoctorID == uuid.Nil {
		return httperr.Validation("Doctor id is required")
	}
	if t.Diagnosis == "" {
		return httperr.Validation("Diagnosis is required")
	}

	if _, err := s.patients.Get(ctx, t.PatientID); err != nil {
		return err
	}
	if _, err := s.doctors.Get(ctx, t.DoctorID); err != nil {
		return err
	}
	return s.treatments.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	t, err := s.treatments.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("Treatment not found")
	}
	return t, err
}

func (s *Service) Update(ctx context.Context, t *Treatment, callerRole string, callerUserID uuid.UUID) error {
	existing, err := s.Get(ctx, t.ID)
	if err != nil {
		return err
	}
	if callerRole == auth.RoleDoctor {
		d, err := s.doctors.GetByUserID(ctx, callerUserID)
		if err != nil {
			return err
		}
		if existing.DoctorID != d.ID {
			return httperr.Authorization("You can only update your own treatments")
		}
	}

	if t.Diagnosis == "" {
		t.Diagnosis = existing.Diagnosis
	}
	t.PatientID = existing.PatientID
	t.DoctorID = existing.DoctorID
	return s.treatments.Update(ctx, t)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.treatments.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Treatment, int, error) {
	return s.treatments.Search(ctx, params, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Treatment, error) {
	return s.treatments.ListByPatient(ctx, patientID)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Treatment, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.treatments.ListByDoctor(ctx, doctorID)
}

func (s *Service) CountForDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	return s.treatments.CountByDoctor(ctx, doctorID)
}
