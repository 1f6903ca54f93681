package treatment

import (
	"context"
	"fmt"

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

const treatmentCols = `t.id, t.patient_id, t.doctor_id, t.diagnosis, t.prescription, t.notes,
	t.follow_up_date, t.created_at, t.updated_at,
	p.first_name || ' ' || p.last_name,
	u.first_name || ' ' || u.last_name`

const treatmentFrom = ` FROM treatments t
	JOIN patients p ON p.id = t.patient_id
	JOIN doctors d ON d.id = t.doctor_id
	JOIN users u ON u.id = d.user_id`

func scanTreatment(row pgx.Row) (*Treatment, error) {
	var t Treatment
	err := row.Scan(&t.ID, &t.PatientID, &t.DoctorID, &t.Diagnosis, &t.Prescription, &t.Notes,
		&t.FollowUpDate, &t.CreatedAt, &t.UpdatedAt, &t.PatientName, &t.DoctorName)
	return &t, err
}

func (r *repoPG) Create(ctx context.Context, t *Treatment) error {
	t.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO treatments (id, patient_id, doctor_id, diagnosis, prescription, notes, follow_up_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		t.ID, t.PatientID, t.DoctorID, t.Diagnosis, t.Prescription, t.Notes, t.FollowUpDate).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	return scanTreatment(r.conn(ctx).QueryRow(ctx, `SELECT `+treatmentCols+treatmentFrom+` WHERE t.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, t *Treatment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE treatments SET diagnosis=$2, prescription=$3, notes=$4, follow_up_date=$5, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.Diagnosis, t.Prescription, t.Notes, t.FollowUpDate)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM treatments WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Treatment, int, error) {
	query := `SELECT ` + treatmentCols + treatmentFrom + ` WHERE 1=1`
	countQuery := `SELECT COUNT(*)` + treatmentFrom + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	for col, key := range map[string]string{"t.patient_id": "patient_id", "t.doctor_id": "doctor_id"} {
		if p, ok := params[key]; ok && p != "" {
			clause := fmt.Sprintf(` AND %s = $%d`, col, idx)
			query += clause
			countQuery += clause
			args = append(args, p)
			idx++
		}
	}
	if p, ok := params["search"]; ok && p != "" {
		clause := fmt.Sprintf(` AND (t.diagnosis ILIKE $%d OR t.prescription ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
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

func collect(rows pgx.Rows) ([]*Treatment, error) {
	var items []*Treatment
	for rows.Next() {
		t, err := scanTreatment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Treatment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+treatmentCols+treatmentFrom+` WHERE t.patient_id = $1 ORDER BY t.created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Treatment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+treatmentCols+treatmentFrom+` WHERE t.doctor_id = $1 ORDER BY t.created_at DESC`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM treatments WHERE doctor_id = $1`, doctorID).Scan(&total)
	return total, err
}
