package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
)

type InvoiceRepo struct {
	db *sql.DB
}

func NewInvoiceRepo(db *sql.DB) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

const invoiceColumns = `id, customer_id, amount, status, to_char(date, 'YYYY-MM-DD')`

func scanInvoice(sc interface{ Scan(...any) error }) (domain.Invoice, error) {
	var (
		inv    domain.Invoice
		status string
	)
	if err := sc.Scan(&inv.ID, &inv.CustomerID, &inv.AmountCents, &status, &inv.Date); err != nil {
		return domain.Invoice{}, err
	}
	inv.Status = domain.InvoiceStatus(status)
	return inv, nil
}

// Insert stores inv and returns the generated id.
func (r *InvoiceRepo) Insert(ctx context.Context, inv domain.Invoice) (string, error) {
	const q = `
INSERT INTO invoices (customer_id, amount, status, date)
VALUES ($1, $2, $3, $4::date)
RETURNING id;
`
	var id string
	err := r.db.QueryRowContext(ctx, q, inv.CustomerID, inv.AmountCents, string(inv.Status), inv.Date).Scan(&id)
	if err != nil {
		return "", mapWriteErr(err)
	}
	return id, nil
}

// Update rewrites the mutable columns and returns the stored row. id and
// date are never touched. found is false when no row has the id.
func (r *InvoiceRepo) Update(ctx context.Context, inv domain.Invoice) (domain.Invoice, bool, error) {
	q := `
UPDATE invoices
SET customer_id = $2,
    amount = $3,
    status = $4
WHERE id = $1
RETURNING ` + invoiceColumns + `;
`
	out, err := scanInvoice(r.db.QueryRowContext(ctx, q, inv.ID, inv.CustomerID, inv.AmountCents, string(inv.Status)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Invoice{}, false, nil
		}
		return domain.Invoice{}, false, mapWriteErr(err)
	}
	return out, true, nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1;`, id)
	if err != nil {
		return 0, mapWriteErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.ErrStoreUnavailable(err)
	}
	return n, nil
}

// List returns every invoice, newest first.
func (r *InvoiceRepo) List(ctx context.Context) ([]domain.Invoice, error) {
	q := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY date DESC, id;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}
	defer rows.Close()

	out := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, domain.ErrStoreUnavailable(err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStoreUnavailable(err)
	}
	return out, nil
}

func (r *InvoiceRepo) Get(ctx context.Context, id string) (domain.Invoice, error) {
	q := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 LIMIT 1;`

	inv, err := scanInvoice(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Invoice{}, domain.ErrNotFound("invoice")
		}
		return domain.Invoice{}, domain.ErrStoreUnavailable(err)
	}
	return inv, nil
}
