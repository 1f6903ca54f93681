package labtest

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

// LabTest maps to the lab_tests table.
type LabTest struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patientId"`
	DoctorID    uuid.UUID  `db:"doctor_id" json:"doctorId"`
	TestName    string     `db:"test_name" json:"testName"`
	TestType    string     `db:"test_type" json:"testType,omitempty"`
	Status      string     `db:"status" json:"status"`
	Results     string     `db:"results" json:"results,omitempty"`
	ResultFile  string     `db:"result_file" json:"resultFile,omitempty"`
	NormalRange string     `db:"normal_range" json:"normalRange,omitempty"`
	Technician  string     `db:"technician" json:"technician,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`

	PatientName string `db:"-" json:"patientName,omitempty"`
	DoctorName  string `db:"-" json:"doctorName,omitempty"`
}

// Stats is the lab overview used by the dashboard.
type Stats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	Processing     int `json:"processing"`
	Completed      int `json:"completed"`
	TodayCompleted int `json:"todayCompleted"`
}
