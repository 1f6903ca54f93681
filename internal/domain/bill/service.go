package bill

import (
	"context"
	"errors"

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

// TxRunner executes fn inside a database transaction carried by the context.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	bills    Repository
	patients PatientGetter
	doctors  DoctorGetter
	runTx    TxRunner
}

func NewService(bills Repository, patients PatientGetter, doctors DoctorGetter, runTx TxRunner) *Service {
	return &Service{bills: bills, patients: patients, doctors: doctors, runTx: runTx}
}

// PaymentResult reports the bill state after a payment was applied.
type PaymentResult struct {
	NewPaidAmount float64 `json:"newPaidAmount"`
	NewStatus     string  `json:"newStatus"`
	Balance       float64 `json:"balance"`
}

// Create validates the bill, computes line and grand totals, and writes the
// header and all items in a single transaction.
func (s *Service) Create(ctx context.Context, b *Bill) error {
	if b.PatientID == uuid.Nil {
		return httperr.Validation("Patient id is required")
	}
	if len(b.Items) == 0 {
		return httperr.Validation("At least one bill item is required")
	}

	if _, err := s.patients.Get(ctx, b.PatientID); err != nil {
		return err
	}
	if b.DoctorID != nil {
		if _, err := s.doctors.Get(ctx, *b.DoctorID); err != nil {
			return err
		}
	}

	b.TotalAmount = 0
	for i := range b.Items {
		it := &b.Items[i]
		if it.Description == "" {
			return httperr.Validation("Item description is required")
		}
		if it.Quantity <= 0 {
			return httperr.Validation("Item quantity must be greater than zero")
		}
		if it.UnitPrice < 0 {
			return httperr.Validation("Item unit price cannot be negative")
		}
		if it.Category == "" {
			it.Category = "other"
		} else if !validCategories[it.Category] {
			return httperr.Validation("Item category must be consultation, medicine, test, procedure or other")
		}
		it.TotalPrice = float64(it.Quantity) * it.UnitPrice
		b.TotalAmount += it.TotalPrice
	}

	b.ID = uuid.New()
	b.PaidAmount = 0
	b.Status = StatusPending

	return s.runTx(ctx, func(ctx context.Context) error {
		if err := s.bills.InsertBill(ctx, b); err != nil {
			return err
		}
		return s.bills.InsertItems(ctx, b.ID, b.Items)
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bill, error) {
	b, err := s.bills.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("Bill not found")
	}
	return b, err
}

// ApplyPayment sets the bill's paid amount and derives its status. The bill is
// left untouched on any rejection.
func (s *Service) ApplyPayment(ctx context.Context, id uuid.UUID, paidAmount float64, paymentMethod string) (*PaymentResult, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == StatusCancelled {
		return nil, httperr.InvalidPayment("Cannot record payment on a cancelled bill")
	}
	if paidAmount < 0 {
		return nil, httperr.InvalidPayment("Paid amount cannot be negative")
	}
	if paidAmount > b.TotalAmount {
		return nil, httperr.InvalidPayment("Paid amount cannot exceed total amount")
	}

	status := StatusPending
	switch {
	case paidAmount == b.TotalAmount:
		status = StatusPaid
	case paidAmount > 0:
		status = StatusPartial
	}

	if paymentMethod == "" {
		paymentMethod = b.PaymentMethod
	}
	if err := s.bills.UpdatePayment(ctx, id, paidAmount, status, paymentMethod); err != nil {
		return nil, err
	}
	return &PaymentResult{
		NewPaidAmount: paidAmount,
		NewStatus:     status,
		Balance:       b.TotalAmount - paidAmount,
	}, nil
}

// SetStatus overwrites the bill status without re-deriving it from payments.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !validStatuses[status] {
		return httperr.Validation("Status must be pending, partial, paid or cancelled")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.bills.UpdateStatus(ctx, id, status)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.bills.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error) {
	return s.bills.Search(ctx, params, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Bill, error) {
	return s.bills.ListByPatient(ctx, patientID)
}

func (s *Service) Overview(ctx context.Context) (*Stats, error) {
	return s.bills.Stats(ctx)
}
