package appointment

import (
	"context"
	"errors"
	"time"

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
	appts    Repository
	patients PatientGetter
	doctors  DoctorGetter
}

func NewService(appts Repository, patients PatientGetter, doctors DoctorGetter) *Service {
	return &Service{appts: appts, patients: patients, doctors: doctors}
}

// dayBounds returns the local day containing t as [from, to).
func dayBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return httperr.Validation("Patient id is required")
	}
	if a.DoctorID == uuid.Nil {
		return httperr.Validation("Doctor id is required")
	}
	if a.DateTime.IsZero() {
		return httperr.Validation("Date and time are required")
	}
	if a.Reason == "" {
		return httperr.Validation("Reason is required")
	}

	if _, err := s.patients.Get(ctx, a.PatientID); err != nil {
		return err
	}
	if _, err := s.doctors.Get(ctx, a.DoctorID); err != nil {
		return err
	}

	conflict, err := s.appts.HasConflict(ctx, a.DoctorID, a.DateTime, uuid.Nil)
	if err != nil {
		return err
	}
	if conflict {
		return httperr.Conflict("Doctor has a conflicting appointment at this time")
	}

	if a.Status == "" {
		a.Status = StatusScheduled
	} else if !validStatuses[a.Status] {
		return httperr.Validation("Status must be scheduled, completed or cancelled")
	}
	return s.appts.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("Appointment not found")
	}
	return a, err
}

// getOwned loads an appointment and, for callers with the doctor role,
// rejects any appointment that is not theirs.
func (s *Service) getOwned(ctx context.Context, id uuid.UUID, callerRole string, callerUserID uuid.UUID) (*Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == auth.RoleDoctor {
		d, err := s.doctors.GetByUserID(ctx, callerUserID)
		if err != nil {
			return nil, err
		}
		if a.DoctorID != d.ID {
			return nil, httperr.Authorization("You can only manage your own appointments")
		}
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, a *Appointment, callerRole string, callerUserID uuid.UUID) error {
	existing, err := s.getOwned(ctx, a.ID, callerRole, callerUserID)
	if err != nil {
		return err
	}

	if a.PatientID == uuid.Nil {
		a.PatientID = existing.PatientID
	} else if a.PatientID != existing.PatientID {
		if _, err := s.patients.Get(ctx, a.PatientID); err != nil {
			return err
		}
	}
	if a.DoctorID == uuid.Nil {
		a.DoctorID = existing.DoctorID
	} else if a.DoctorID != existing.DoctorID {
		if _, err := s.doctors.Get(ctx, a.DoctorID); err != nil {
			return err
		}
	}
	if a.DateTime.IsZero() {
		a.DateTime = existing.DateTime
	}
	if a.Status == "" {
		a.Status = existing.Status
	} else if !validStatuses[a.Status] {
		return httperr.Validation("Status must be scheduled, completed or cancelled")
	}
	if a.Reason == "" {
		a.Reason = existing.Reason
	}

	// Re-check the slot when it moves, and also when a cancelled appointment
	// comes back to life: its old slot may have been taken in the meantime.
	slotChanged := !a.DateTime.Equal(existing.DateTime) || a.DoctorID != existing.DoctorID
	revived := existing.Status == StatusCancelled && a.Status != StatusCancelled
	if (slotChanged || revived) && a.Status != StatusCancelled {
		conflict, err := s.appts.HasConflict(ctx, a.DoctorID, a.DateTime, a.ID)
		if err != nil {
			return err
		}
		if conflict {
			return httperr.Conflict("Doctor has a conflicting appointment at this time")
		}
	}

	return s.appts.Update(ctx, a)
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason, callerRole string, callerUserID uuid.UUID) (*Appointment, error) {
	a, err := s.getOwned(ctx, id, callerRole, callerUserID)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusCancelled {
		return nil, httperr.Validation("Appointment is already cancelled")
	}

	a.Status = StatusCancelled
	if reason != "" {
		if a.Notes != "" {
			a.Notes += "\n"
		}
		a.Notes += "Cancelled: " + reason
	}
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID, callerRole string, callerUserID uuid.UUID) (*Appointment, error) {
	a, err := s.getOwned(ctx, id, callerRole, callerUserID)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled {
		return nil, httperr.Validation("Only scheduled appointments can be completed")
	}

	a.Status = StatusCompleted
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.appts.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.Search(ctx, params, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return s.appts.ListByPatient(ctx, patientID)
}

// Today lists today's appointments. Doctors only see their own.
func (s *Service) Today(ctx context.Context, callerRole string, callerUserID uuid.UUID) ([]*Appointment, error) {
	doctorID := uuid.Nil
	if callerRole == auth.RoleDoctor {
		d, err := s.doctors.GetByUserID(ctx, callerUserID)
		if err != nil {
			return nil, err
		}
		doctorID = d.ID
	}
	from, to := dayBounds(time.Now())
	return s.appts.ListBetween(ctx, from, to, doctorID)
}

func (s *Service) Overview(ctx context.Context) (*Stats, error) {
	from, to := dayBounds(time.Now())
	return s.appts.Stats(ctx, from, to)
}

// Counting helpers used by the dashboard.

func (s *Service) TotalCount(ctx context.Context) (int, error) {
	return s.appts.Count(ctx)
}

func (s *Service) CountToday(ctx context.Context, status string) (int, error) {
	from, to := dayBounds(time.Now())
	return s.appts.CountBetween(ctx, from, to, status)
}

func (s *Service) CountForDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	return s.appts.CountByDoctor(ctx, doctorID)
}

func (s *Service) CountTodayForDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	from, to := dayBounds(time.Now())
	return s.appts.CountByDoctorBetween(ctx, doctorID, from, to)
}

func (s *Service) DistinctPatientsForDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	return s.appts.CountDistinctPatients(ctx, doctorID)
}
