package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `a.id, a.patient_id, a.doctor_id, a.date_time, a.status, a.reason, a.notes,
	a.created_at, a.updated_at,
	p.first_name || ' ' || p.last_name,
	u.first_name || ' ' || u.last_name`

const apptFrom = ` FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id
	JOIN users u ON u.id = d.user_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.DateTime, &a.Status, &a.Reason, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt, &a.PatientName, &a.DoctorName)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, date_time, status, reason, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.DateTime, a.Status, a.Reason, a.Notes).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+apptFrom+` WHERE a.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET patient_id=$2, doctor_id=$3, date_time=$4, status=$5,
			reason=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.DoctorID, a.DateTime, a.Status, a.Reason, a.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	query := `SELECT ` + apptCols + apptFrom + ` WHERE 1=1`
	countQuery := `SELECT COUNT(*)` + apptFrom + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	for col, key := range map[string]string{"a.status": "status", "a.doctor_id": "doctor_id", "a.patient_id": "patient_id"} {
		if p, ok := params[key]; ok && p != "" {
			clause := fmt.Sprintf(` AND %s = $%d`, col, idx)
			query += clause
			countQuery += clause
			args = append(args, p)
			idx++
		}
	}
	if p, ok := params["date"]; ok && p != "" {
		clause := fmt.Sprintf(` AND a.date_time::date = $%d::date`, idx)
		query += clause
		countQuery += clause
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY a.date_time DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func collect(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+apptFrom+` WHERE a.patient_id = $1 ORDER BY a.date_time DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) HasConflict(ctx context.Context, doctorID uuid.UUID, dateTime time.Time, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND date_time = $2 AND status <> 'cancelled' AND id <> $3
		)`, doctorID, dateTime, excludeID).Scan(&exists)
	return exists, err
}

func (r *repoPG) ListBetween(ctx context.Context, from, to time.Time, doctorID uuid.UUID) ([]*Appointment, error) {
	query := `SELECT ` + apptCols + apptFrom + ` WHERE a.date_time >= $1 AND a.date_time < $2`
	args := []interface{}{from, to}
	if doctorID != uuid.Nil {
		query += ` AND a.doctor_id = $3`
		args = append(args, doctorID)
	}
	query += ` ORDER BY a.date_time ASC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) Stats(ctx context.Context, todayFrom, todayTo time.Time) (*Stats, error) {
	var s Stats
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'scheduled'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COUNT(*) FILTER (WHERE date_time >= $1 AND date_time < $2)
		FROM appointments`, todayFrom, todayTo).
		Scan(&s.Total, &s.Scheduled, &s.Completed, &s.Cancelled, &s.Today)
	return &s, err
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total)
	return total, err
}

func (r *repoPG) CountBetween(ctx context.Context, from, to time.Time, status string) (int, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE date_time >= $1 AND date_time < $2`
	args := []interface{}{from, to}
	if status != "" {
		query += ` AND status = $3`
		args = append(args, status)
	}
	var total int
	err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

func (r *repoPG) CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE doctor_id = $1`, doctorID).Scan(&total)
	return total, err
}

func (r *repoPG) CountByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE doctor_id = $1 AND date_time >= $2 AND date_time < $3`,
		doctorID, from, to).Scan(&total)
	return total, err
}

func (r *repoPG) CountDistinctPatients(ctx context.Context, doctorID uuid.UUID) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(DISTINCT patient_id) FROM appointments WHERE doctor_id = $1`, doctorID).Scan(&total)
	return total, err
}
