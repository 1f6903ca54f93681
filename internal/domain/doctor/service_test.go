package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/platform/httperr"
)

// -- Mock Repository --

type mockRepo struct {
	doctors map[uuid.UUID]*Doctor
}

func newMockRepo() *mockRepo {
	return &mockRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.UserID == userID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRepo) GetByLicense(_ context.Context, license string) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.LicenseNumber == license {
			cp := *d
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRepo) Update(_ context.Context, d *Doctor) error {
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.doctors, id)
	return nil
}

func (m *mockRepo) Search(_ context.Context, _ map[string]string, limit, offset int) ([]*Doctor, int, error) {
	var result []*Doctor
	for _, d := range m.doctors {
		result = append(result, d)
	}
	return result, len(result), nil
}

func (m *mockRepo) Count(_ context.Context) (int, error) {
	return len(m.doctors), nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func validDoctor() *Doctor {
	return &Doctor{
		UserID:          uuid.New(),
		Specialization:  "Cardiology",
		LicenseNumber:   "LIC-1001",
		Experience:      8,
		ConsultationFee: 150,
		Schedule: []ScheduleEntry{
			{Day: "monday", StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		},
	}
}

// -- Tests --

func TestCreate_Valid(t *testing.T) {
	svc := newTestService()
	d := validDoctor()

	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreate_UserIDRequired(t *testing.T) {
	svc := newTestService()
	d := validDoctor()
	d.UserID = uuid.Nil

	if err := svc.Create(context.Background(), d); !httperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreate_LicenseRequired(t *testing.T) {
	svc := newTestService()
	d := validDoctor()
	d.LicenseNumber = ""

	if err := svc.Create(context.Background(), d); !httperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreate_NegativeFee(t *testing.T) {
	svc := newTestService()
	d := validDoctor()
	d.ConsultationFee = -5

	if err := svc.Create(context.Background(), d); !httperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreate_DuplicateUser(t *testing.T) {
	svc := newTestService()
	first := validDoctor()
	if err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := validDoctor()
	dup.UserID = first.UserID
	dup.LicenseNumber = "LIC-2002"
	if err := svc.Create(context.Background(), dup); !httperr.IsConflict(err) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestCreate_DuplicateLicense(t *testing.T) {
	svc := newTestService()
	if err := svc.Create(context.Background(), validDoctor()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := validDoctor()
	if err := svc.Create(context.Background(), dup); !httperr.IsConflict(err) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Get(context.Background(), uuid.New()); !httperr.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestGetByUserID(t *testing.T) {
	svc := newTestService()
	d := validDoctor()
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetByUserID(context.Background(), d.UserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != d.ID {
		t.Errorf("expected doctor %s, got %s", d.ID, got.ID)
	}

	if _, err := svc.GetByUserID(context.Background(), uuid.New()); !httperr.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestUpdate_LicenseConflict(t *testing.T) {
	svc := newTestService()
	first := validDoctor()
	if err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := validDoctor()
	second.LicenseNumber = "LIC-2002"
	if err := svc.Create(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second.LicenseNumber = first.LicenseNumber
	if err := svc.Update(context.Background(), second); !httperr.IsConflict(err) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestUpdate_PreservesUserID(t *testing.T) {
	svc := newTestService()
	d := validDoctor()
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upd := &Doctor{
		ID:              d.ID,
		UserID:          uuid.New(),
		Specialization:  "Neurology",
		LicenseNumber:   d.LicenseNumber,
		Experience:      9,
		ConsultationFee: 200,
	}
	if err := svc.Update(context.Background(), upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != d.UserID {
		t.Error("expected user id to be preserved on update")
	}
	if got.Specialization != "Neurology" {
		t.Errorf("expected specialization updated, got %q", got.Specialization)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService()

	if err := svc.Delete(context.Background(), uuid.New()); !httperr.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}
