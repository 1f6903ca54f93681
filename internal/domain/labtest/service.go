package labtest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/domain/doctor"
	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/platform/httperr"
)

type PatientGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type DoctorGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

type Service struct {
	tests    Repository
	patients PatientGetter
	doctors  DoctorGetter
}

func NewService(tests Repository, patients PatientGetter, doctors DoctorGetter) *Service {
	return &Service{tests: tests, patients: patients, doctors: doctors}
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}

func (s *Service) Create(ctx context.Context, lt *LabTest) error {
	if lt.PatientID == uuid.Nil {
		return httperr.Validation("Patient id is required")
	}
	if lt.DoctorID == uuid.Nil {
		return httperr.Validation("Doctor id is required")
	}
	if lt.TestName == "" {
		return httperr.Validation("Test name is required")
	}
	if lt.Status == "" {
		lt.Status = StatusPending
	} else if !validStatuses[lt.Status] {
		return httperr.Validation("Status must be pending, processing, completed or cancelled")
	}

	if _, err := s.patients.Get(ctx, lt.PatientID); err != nil {
		return err
	}
	if _, err := s.doctors.Get(ctx, lt.DoctorID); err != nil {
		return err
	}

	if lt.Status == StatusCompleted && lt.CompletedAt == nil {
		now := time.Now()
		lt.CompletedAt = &now
	}
	return s.tests.Create(ctx, lt)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	lt, err := s.tests.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("Lab test not found")
	}
	return lt, err
}

func (s *Service) Update(ctx context.Context, lt *LabTest) error {
	existing, err := s.Get(ctx, lt.ID)
	if err != nil {
		return err
	}

	if lt.TestName == "" {
		lt.TestName = existing.TestName
	}
	if lt.Status == "" {
		lt.Status = existing.Status
	} else if !validStatuses[lt.Status] {
		return httperr.Validation("Status must be pending, processing, completed or cancelled")
	}

	// Moving into completed stamps the completion time once.
	lt.CompletedAt = existing.CompletedAt
	if lt.Status == StatusCompleted && existing.Status != StatusCompleted {
		now := time.Now()
		lt.CompletedAt = &now
	}

	lt.PatientID = existing.PatientID
	lt.DoctorID = existing.DoctorID
	return s.tests.Update(ctx, lt)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.tests.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, params map[string]string, limit, offset int) ([]*LabTest, int, error) {
	return s.tests.Search(ctx, params, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*LabTest, error) {
	return s.tests.ListByPatient(ctx, patientID)
}

func (s *Service) Overview(ctx context.Context) (*Stats, error) {
	from, to := dayBounds(time.Now())
	return s.tests.Stats(ctx, from, to)
}

func (s *Service) CountForDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	return s.tests.CountByDoctor(ctx, doctorID)
}
