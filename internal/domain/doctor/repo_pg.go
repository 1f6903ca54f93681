package doctor

import (
	"context"
	"encoding/json"
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

// Doctor rows are always read joined with their user account so listings carry
// the doctor's name without a second round trip.
const doctorCols = `d.id, d.user_id, d.specialization, d.license_number, d.experience,
	d.consultation_fee, d.schedule, d.created_at, d.updated_at, u.first_name, u.last_name, u.email`

const doctorFrom = ` FROM doctors d JOIN users u ON u.id = d.user_id`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var schedule []byte
	err := row.Scan(&d.ID, &d.UserID, &d.Specialization, &d.LicenseNumber, &d.Experience,
		&d.ConsultationFee, &schedule, &d.CreatedAt, &d.UpdatedAt, &d.FirstName, &d.LastName, &d.Email)
	if err != nil {
		return nil, err
	}
	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &d.Schedule); err != nil {
			return nil, fmt.Errorf("decode schedule: %w", err)
		}
	}
	return &d, nil
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	schedule, err := json.Marshal(d.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctors (id, user_id, specialization, license_number, experience, consultation_fee, schedule)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		d.ID, d.UserID, d.Specialization, d.LicenseNumber, d.Experience, d.ConsultationFee, schedule).
		Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+doctorFrom+` WHERE d.id = $1`, id))
}

func (r *repoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+doctorFrom+` WHERE d.user_id = $1`, userID))
}

func (r *repoPG) GetByLicense(ctx context.Context, license string) (*Doctor, error) {
	return scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+doctorFrom+` WHERE d.license_number = $1`, license))
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	schedule, err := json.Marshal(d.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET specialization=$2, license_number=$3, experience=$4,
			consultation_fee=$5, schedule=$6, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Specialization, d.LicenseNumber, d.Experience, d.ConsultationFee, schedule)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error) {
	query := `SELECT ` + doctorCols + doctorFrom + ` WHERE 1=1`
	countQuery := `SELECT COUNT(*)` + doctorFrom + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["search"]; ok && p != "" {
		clause := fmt.Sprintf(` AND (u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR d.specialization ILIKE $%d)`, idx, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}
	if p, ok := params["specialization"]; ok && p != "" {
		query += fmt.Sprintf(` AND d.specialization = $%d`, idx)
		countQuery += fmt.Sprintf(` AND d.specialization = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY d.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&total)
	return total, err
}
