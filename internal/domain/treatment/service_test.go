package treatment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/domain/doctor"
	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
)

// -- Mock Repository --

type mockRepo struct {
	treatments map[uuid.UUID]*Treatment
}

func newMockRepo() *mockRepo {
	return &mockRepo{treatments: make(map[uuid.UUID]*Treatment)}
}

func (m *mockRepo) Create(_ context.Context, t *Treatment) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	m.treatments[t.ID] = t
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Treatment, error) {
	t, ok := m.treatments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, t *Treatment) error {
	m.treatments[t.ID] = t
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.treatments, id)
	return nil
}

func (m *mockRepo) Search(_ context.Context, _ map[string]string, limit, offset int) ([]*Treatment, int, error) {
	var result []*Treatment
	for _, t := range m.treatments {
		result = append(result, t)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Treatment, error) {
	var result []*Treatment
	for _, t := range m.treatments {
		if t.PatientID == patientID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*Treatment, error) {
	var result []*Treatment
	for _, t := range m.treatments {
		if t.DoctorID == doctorID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockRepo) CountByDoctor(_ context.Context, doctorID uuid.UUID) (int, error) {
	count := 0
	for _, t := range m.treatments {
		if t.DoctorID == doctorID {
			count++
		}
	}
	return count, nil
}

// -- Stub directories --

type stubPatients struct{ ids map[uuid.UUID]bool }

func (s stubPatients) Get(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	if !s.ids[id] {
		return nil, httperr.NotFound("Patient not found")
	}
	return &patient.Patient{ID: id}, nil
}

type stubDoctors struct{ doctors map[uuid.UUID]*doctor.Doctor }

func (s stubDoctors) Get(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	d, ok := s.doctors[id]
	if !ok {
		return nil, httperr.NotFound("Doctor not found")
	}
	return d, nil
}

func (s stubDoctors) GetByUserID(_ context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	for _, d := range s.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, httperr.NotFound("Doctor profile not found")
}

type testEnv struct {
	svc          *Service
	patientID    uuid.UUID
	doctorID     uuid.UUID
	doctorUserID uuid.UUID
}

func newTestEnv() *testEnv {
	env := &testEnv{
		patientID:    uuid.New(),
		doctorID:     uuid.New(),
		doctorUserID: uuid.New(),
	}
	patients := stubPatients{ids: map[uuid.UUID]bool{env.patientID: true}}
	doctors := stubDoctors{doctors: map[uuid.UUID]*doctor.Doctor{
		env.doctorID: {ID: env.doctorID, UserID: env.doctorUserID},
	}}
	env.svc = NewService(newMockRepo(), patients, doctors)
	return env
}

func (env *testEnv) validTreatment() *Treatment {
	return &Treatment{
		PatientID: env.patientID,
		DoctorID:  env.doctorID,
		Diagnosis: "Hypertension",
	}
}

// -- Tests --

func TestCreate_Valid(t *testing.T) {
	env := newTestEnv()
	tr := env.validTreatment()

	if err := env.svc.Create(context.Background(), tr, auth.RoleAdmin, uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreate_DiagnosisRequired(t *testing.T) {
	env := newTestEnv()
	tr := env.validTreatment()
	tr.Diagnosis = ""

	err := env.svc.Create(context.Background(), tr, auth.RoleAdmin, uuid.New())
	if !httperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreate_UnknownPatient(t *testing.T) {
	env := newTestEnv()
	tr := env.validTreatment()
	tr.PatientID = uuid.New()

	err := env.svc.Create(context.Background(), tr, auth.RoleAdmin, uuid.New())
	if !httperr.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestCreate_DoctorResolvedFromCaller(t *testing.T) {
	env := newTestEnv()
	tr := env.validTreatment()
	tr.DoctorID = uuid.New()

	if err := env.svc.Create(context.Background(), tr, auth.RoleDoctor, env.doctorUserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.DoctorID != env.doctorID {
		t.Errorf("expected doctor id forced to caller's profile, got %s", tr.DoctorID)
	}
}

func TestUpdate_DoctorOwnershipEnforced(t *testing.T) {
	env := newTestEnv()
	tr := env.validTreatment()
	if err := env.svc.Create(context.Background(), tr, auth.RoleAdmin, uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	otherUserID := uuid.New()
	env.svc.doctors.(stubDoctors).doctors[uuid.New()] = &doctor.Doctor{ID: uuid.New(), UserID: otherUserID}

	upd := &Treatment{ID: tr.ID, Diagnosis: "Changed"}
	err := env.svc.Update(context.Background(), upd, auth.RoleDoctor, otherUserID)
	if !httperr.IsAuthorization(err) {
		t.Errorf("expected authorization error, got %v", err)
	}
}

func TestUpdate_PreservesPatientAndDoctor(t *testing.T) {
	env := newTestEnv()
	tr := env.validTreatment()
	if err := env.svc.Create(context.Background(), tr, auth.RoleAdmin, uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upd := &Treatment{ID: tr.ID, PatientID: uuid.New(), DoctorID: uuid.New(), Diagnosis: "Updated"}
	if err := env.svc.Update(context.Background(), upd, auth.RoleAdmin, uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := env.svc.Get(context.Background(), tr.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PatientID != env.patientID || got.DoctorID != env.doctorID {
		t.Error("expected patient and doctor bindings preserved on update")
	}
}

func TestListByDoctor_UnknownDoctor(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.ListByDoctor(context.Background(), uuid.New())
	if !httperr.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	env := newTestEnv()

	if err := env.svc.Delete(context.Background(), uuid.New()); !httperr.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}
