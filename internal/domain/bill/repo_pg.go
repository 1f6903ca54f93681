package bill

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

const billCols = `b.id, b.patient_id, b.doctor_id, b.total_amount, b.paid_amount, b.status,
	b.payment_method, b.notes, b.created_at, b.updated_at,
	p.first_name || ' ' || p.last_name`

const billFrom = ` FROM bills b JOIN patients p ON p.id = b.patient_id`

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	err := row.Scan(&b.ID, &b.PatientID, &b.DoctorID, &b.TotalAmount, &b.PaidAmount, &b.Status,
		&b.PaymentMethod, &b.Notes, &b.CreatedAt, &b.UpdatedAt, &b.PatientName)
	return &b, err
}

func (r *repoPG) InsertBill(ctx context.Context, b *Bill) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO bills (id, patient_id, doctor_id, total_amount, paid_amount, status, payment_method, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		b.ID, b.PatientID, b.DoctorID, b.TotalAmount, b.PaidAmount, b.Status, b.PaymentMethod, b.Notes).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *repoPG) InsertItems(ctx context.Context, billID uuid.UUID, items []Item) error {
	for i := range items {
		items[i].ID = uuid.New()
		items[i].BillID = billID
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO bill_items (id, bill_id, position, description, quantity, unit_price, total_price, category)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			items[i].ID, billID, i, items[i].Description, items[i].Quantity,
			items[i].UnitPrice, items[i].TotalPrice, items[i].Category); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) itemsFor(ctx context.Context, billIDs []uuid.UUID) (map[uuid.UUID][]Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, bill_id, description, quantity, unit_price, total_price, category
		FROM bill_items WHERE bill_id = ANY($1) ORDER BY position`, billIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byBill := make(map[uuid.UUID][]Item)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.BillID, &it.Description, &it.Quantity,
			&it.UnitPrice, &it.TotalPrice, &it.Category); err != nil {
			return nil, err
		}
		byBill[it.BillID] = append(byBill[it.BillID], it)
	}
	return byBill, rows.Err()
}

func (r *repoPG) hydrate(ctx context.Context, bills []*Bill) error {
	if len(bills) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}
	byBill, err := r.itemsFor(ctx, ids)
	if err != nil {
		return err
	}
	for _, b := range bills {
		b.Items = byBill[b.ID]
		if b.Items == nil {
			b.Items = []Item{}
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bill, error) {
	b, err := scanBill(r.conn(ctx).QueryRow(ctx, `SELECT `+billCols+billFrom+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, []*Bill{b}); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error) {
	query := `SELECT ` + billCols + billFrom + ` WHERE 1=1`
	countQuery := `SELECT COUNT(*)` + billFrom + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	for col, key := range map[string]string{"b.status": "status", "b.patient_id": "patient_id"} {
		if p, ok := params[key]; ok && p != "" {
			clause := fmt.Sprintf(` AND %s = $%d`, col, idx)
			query += clause
			countQuery += clause
			args = append(args, p)
			idx++
		}
	}
	if p, ok := params["search"]; ok && p != "" {
		clause := fmt.Sprintf(` AND (p.first_name ILIKE $%d OR p.last_name ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.hydrate(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Bill, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+billCols+billFrom+` WHERE b.patient_id = $1 ORDER BY b.created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repoPG) UpdatePayment(ctx context.Context, id uuid.UUID, paidAmount float64, status, paymentMethod string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE bills SET paid_amount=$2, status=$3, payment_method=$4, updated_at=NOW()
		WHERE id = $1`, id, paidAmount, status, paymentMethod)
	return err
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE bills SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	return err
}

func (r *repoPG) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(total_amount), 0),
			COALESCE(SUM(paid_amount), 0),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'partial'),
			COUNT(*) FILTER (WHERE status = 'paid'),
			COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM bills`).
		Scan(&s.TotalBills, &s.TotalAmount, &s.TotalCollected, &s.Pending, &s.Partial, &s.Paid, &s.Cancelled)
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
			COUNT(*), COALESCE(SUM(total_amount), 0), COALESCE(SUM(paid_amount), 0)
		FROM bills
		WHERE created_at >= date_trunc('month', NOW()) - INTERVAL '11 months'
		GROUP BY month
		ORDER BY month DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s.Monthly = []MonthlyStat{}
	for rows.Next() {
		var m MonthlyStat
		if err := rows.Scan(&m.Month, &m.Count, &m.Total, &m.Paid); err != nil {
			return nil, err
		}
		s.Monthly = append(s.Monthly, m)
	}
	return &s, rows.Err()
}
