package bill

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusPartial   = "partial"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusPartial:   true,
	StatusPaid:      true,
	StatusCancelled: true,
}

var validCategories = map[string]bool{
	"consultation": true,
	"medicine":     true,
	"test":         true,
	"procedure":    true,
	"other":        true,
}

// Item is one line of a bill. TotalPrice is always quantity times unit price,
// recomputed server side.
type Item struct {
	ID          uuid.UUID `db:"id" json:"id"`
	BillID      uuid.UUID `db:"bill_id" json:"-"`
	Description string    `db:"description" json:"description"`
	Quantity    int       `db:"quantity" json:"quantity"`
	UnitPrice   float64   `db:"unit_price" json:"unitPrice"`
	TotalPrice  float64   `db:"total_price" json:"totalPrice"`
	Category    string    `db:"category" json:"category"`
}

// Bill maps to the bills table; items live in bill_items and are hydrated on
// reads. TotalAmount is fixed at creation.
type Bill struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patientId"`
	DoctorID      *uuid.UUID `db:"doctor_id" json:"doctorId,omitempty"`
	Items         []Item     `db:"-" json:"items"`
	TotalAmount   float64    `db:"total_amount" json:"totalAmount"`
	PaidAmount    float64    `db:"paid_amount" json:"paidAmount"`
	Status        string     `db:"status" json:"status"`
	PaymentMethod string     `db:"payment_method" json:"paymentMethod,omitempty"`
	Notes         string     `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`

	PatientName string `db:"-" json:"patientName,omitempty"`
}

// Balance is the amount still owed.
func (b *Bill) Balance() float64 {
	return b.TotalAmount - b.PaidAmount
}

// MonthlyStat is one month of the trailing billing breakdown.
type MonthlyStat struct {
	Month string  `json:"month"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
	Paid  float64 `json:"paid"`
}

// Stats is the billing overview returned by /stats/overview.
type Stats struct {
	TotalBills     int           `json:"totalBills"`
	TotalAmount    float64       `json:"totalAmount"`
	TotalCollected float64       `json:"totalCollected"`
	Pending        int           `json:"pending"`
	Partial        int           `json:"partial"`
	Paid           int           `json:"paid"`
	Cancelled      int           `json:"cancelled"`
	Monthly        []MonthlyStat `json:"monthly"`
}
