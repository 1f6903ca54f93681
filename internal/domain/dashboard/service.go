package dashboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/bill"
	"github.com/hms/hms/internal/domain/labtest"
	"github.com/hms/hms/internal/domain/user"
	"github.com/hms/hms/internal/platform/auth"
)

// Sources are the per-domain counters the dashboard draws from. Each field is
// wired to the owning service at startup.
type Sources struct {
	PatientCount      func(ctx context.Context) (int, error)
	AppointmentCount  func(ctx context.Context) (int, error)
	AppointmentsToday func(ctx context.Context, status string) (int, error)
	DoctorCount       func(ctx context.Context) (int, error)
	LabStats          func(ctx context.Context) (*labtest.Stats, error)
	BillStats         func(ctx context.Context) (*bill.Stats, error)
	UserStats         func(ctx context.Context) (*user.Stats, error)

	DoctorIDForUser         func(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	DoctorAppointments      func(ctx context.Context, doctorID uuid.UUID) (int, error)
	DoctorAppointmentsToday func(ctx context.Context, doctorID uuid.UUID) (int, error)
	DoctorPatients          func(ctx context.Context, doctorID uuid.UUID) (int, error)
	DoctorTreatments        func(ctx context.Context, doctorID uuid.UUID) (int, error)
	DoctorLabTests          func(ctx context.Context, doctorID uuid.UUID) (int, error)
}

// Caller identifies the requesting user.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

// statFunc computes one named group of dashboard keys.
type statFunc struct {
	name string
	run  func(ctx context.Context, caller Caller) (map[string]interface{}, error)
}

type Service struct {
	src   Sources
	table map[string][]statFunc
}

func NewService(src Sources) *Service {
	s := &Service{src: src}
	core := statFunc{"core", s.coreStats}
	s.table = map[string][]statFunc{
		auth.RoleAdmin: {
			core,
			{"lab", s.adminLabStats},
			{"billing", s.adminBillingStats},
			{"users", s.userStats},
			{"doctors", s.doctorCount},
		},
		auth.RoleDoctor:    {core, {"caseload", s.doctorStats}},
		auth.RoleReception: {core, {"billing", s.receptionBillingStats}},
		auth.RoleLab:       {core, {"lab", s.labStats}},
	}
	return s
}

// Stats runs every stat function registered for the caller's role, in order,
// and merges their keys into one flat map.
func (s *Service) Stats(ctx context.Context, caller Caller) (map[string]interface{}, error) {
	funcs, ok := s.table[caller.Role]
	if !ok {
		funcs = []statFunc{{"core", s.coreStats}}
	}

	out := make(map[string]interface{})
	for _, f := range funcs {
		part, err := f.run(ctx, caller)
		if err != nil {
			return nil, err
		}
		for k, v := range part {
			out[k] = v
		}
	}
	return out, nil
}

func (s *Service) coreStats(ctx context.Context, _ Caller) (map[string]interface{}, error) {
	patients, err := s.src.PatientCount(ctx)
	if err != nil {
		return nil, err
	}
	appts, err := s.src.AppointmentCount(ctx)
	if err != nil {
		return nil, err
	}
	today, err := s.src.AppointmentsToday(ctx, "")
	if err != nil {
		return nil, err
	}
	todayScheduled, err := s.src.AppointmentsToday(ctx, "scheduled")
	if err != nil {
		return nil, err
	}
	todayCompleted, err := s.src.AppointmentsToday(ctx, "completed")
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"totalPatients":     patients,
		"totalAppointments": appts,
		"todayAppointments": today,
		"todayScheduled":    todayScheduled,
		"todayCompleted":    todayCompleted,
	}, nil
}

func (s *Service) adminLabStats(ctx context.Context, _ Caller) (map[string]interface{}, error) {
	lab, err := s.src.LabStats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"totalTests":     lab.Total,
		"pendingTests":   lab.Pending,
		"completedTests": lab.Completed,
	}, nil
}

func (s *Service) adminBillingStats(ctx context.Context, _ Caller) (map[string]interface{}, error) {
	billing, err := s.src.BillStats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"totalBills":     billing.TotalBills,
		"totalRevenue":   billing.TotalAmount,
		"totalCollected": billing.TotalCollected,
		"paidBills":      billing.Paid,
		"pendingBills":   billing.Pending,
	}, nil
}

func (s *Service) userStats(ctx context.Context, _ Caller) (map[string]interface{}, error) {
	users, err := s.src.UserStats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"totalUsers":  users.TotalUsers,
		"activeUsers": users.ActiveUsers,
	}, nil
}

func (s *Service) doctorCount(ctx context.Context, _ Caller) (map[string]interface{}, error) {
	doctors, err := s.src.DoctorCount(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"totalDoctors": doctors}, nil
}

func (s *Service) doctorStats(ctx context.Context, caller Caller) (map[string]interface{}, error) {
	doctorID, err := s.src.DoctorIDForUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	appts, err := s.src.DoctorAppointments(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	todayAppts, err := s.src.DoctorAppointmentsToday(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	patients, err := s.src.DoctorPatients(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	treatments, err := s.src.DoctorTreatments(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	labTests, err := s.src.DoctorLabTests(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"myAppointments":      appts,
		"myTodayAppointments": todayAppts,
		"myPatients":          patients,
		"myTreatments":        treatments,
		"myLabTests":          labTests,
	}, nil
}

func (s *Service) receptionBillingStats(ctx context.Context, _ Caller) (map[string]interface{}, error) {
	billing, err := s.src.BillStats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"totalBills":     billing.TotalBills,
		"pendingBills":   billing.Pending,
		"paidBills":      billing.Paid,
		"totalCollected": billing.TotalCollected,
	}, nil
}

func (s *Service) labStats(ctx context.Context, _ Caller) (map[string]interface{}, error) {
	lab, err := s.src.LabStats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"totalTests":          lab.Total,
		"pendingTests":        lab.Pending,
		"processingTests":     lab.Processing,
		"completedTests":      lab.Completed,
		"todayCompletedTests": lab.TodayCompleted,
	}, nil
}
