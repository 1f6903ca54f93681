package labtest

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

const labCols = `l.id, l.patient_id, l.doctor_id, l.test_name, l.test_type, l.status,
	l.results, l.result_file, l.normal_range, l.technician, l.completed_at,
	l.created_at, l.updated_at,
	p.first_name || ' ' || p.last_name,
	u.first_name || ' ' || u.last_name`

const labFrom = ` FROM lab_tests l
	JOIN patients p ON p.id = l.patient_id
	JOIN doctors d ON d.id = l.doctor_id
	JOIN users u ON u.id = d.user_id`

func scanLabTest(row pgx.Row) (*LabTest, error) {
	var lt LabTest
	err := row.Scan(&lt.ID, &lt.PatientID, &lt.DoctorID, &lt.TestName, &lt.TestType, &lt.Status,
		&lt.Results, &lt.ResultFile, &lt.NormalRange, &lt.Technician, &lt.CompletedAt,
		&lt.CreatedAt, &lt.UpdatedAt, &lt.PatientName, &lt.DoctorName)
	return &lt, err
}

func (r *repoPG) Create(ctx context.Context, lt *LabTest) error {
	lt.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO lab_tests (id, patient_id, doctor_id, test_name, test_type, status,
			results, result_file, normal_range, technician, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		lt.ID, lt.PatientID, lt.DoctorID, lt.TestName, lt.TestType, lt.Status,
		lt.Results, lt.ResultFile, lt.NormalRange, lt.Technician, lt.CompletedAt).
		Scan(&lt.CreatedAt, &lt.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	return scanLabTest(r.conn(ctx).QueryRow(ctx, `SELECT `+labCols+labFrom+` WHERE l.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, lt *LabTest) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_tests SET test_name=$2, test_type=$3, status=$4, results=$5,
			result_file=$6, normal_range=$7, technician=$8, completed_at=$9, updated_at=NOW()
		WHERE id = $1`,
		lt.ID, lt.TestName, lt.TestType, lt.Status, lt.Results,
		lt.ResultFile, lt.NormalRange, lt.Technician, lt.CompletedAt)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM lab_tests WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*LabTest, int, error) {
	query := `SELECT ` + labCols + labFrom + ` WHERE 1=1`
	countQuery := `SELECT COUNT(*)` + labFrom + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	for col, key := range map[string]string{"l.status": "status", "l.patient_id": "patient_id", "l.doctor_id": "doctor_id"} {
		if p, ok := params[key]; ok && p != "" {
			clause := fmt.Sprintf(` AND %s = $%d`, col, idx)
			query += clause
			countQuery += clause
			args = append(args, p)
			idx++
		}
	}
	if p, ok := params["search"]; ok && p != "" {
		clause := fmt.Sprintf(` AND (l.test_name ILIKE $%d OR l.test_type ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
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

func collect(rows pgx.Rows) ([]*LabTest, error) {
	var items []*LabTest
	for rows.Next() {
		lt, err := scanLabTest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, lt)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*LabTest, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+labCols+labFrom+` WHERE l.patient_id = $1 ORDER BY l.created_at DESC`, patientID)
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
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'processing'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'completed' AND completed_at >= $1 AND completed_at < $2)
		FROM lab_tests`, todayFrom, todayTo).
		Scan(&s.Total, &s.Pending, &s.Processing, &s.Completed, &s.TodayCompleted)
	return &s, err
}

func (r *repoPG) CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM lab_tests WHERE doctor_id = $1`, doctorID).Scan(&total)
	return total, err
}
