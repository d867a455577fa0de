package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"rescue-office/internal/domain/invoices"
)

type InvoicesRepo struct {
	db *sql.DB
}

func NewInvoicesRepo(db *sql.DB) *InvoicesRepo {
	return &InvoicesRepo{db: db}
}

func (r *InvoicesRepo) Create(ctx context.Context, inv invoices.Invoice) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO show_invoices (
			id, exhibitor_id,
			number, amount_cents, due_date,
			status, paid_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		inv.ID,
		inv.ExhibitorID,
		inv.Number,
		inv.AmountCents,
		inv.DueDate,
		inv.Status,
		toNullTime(inv.PaidAt),
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if isUniqueViolation(err, "show_invoices_number_key") {
		return invoices.ErrNumberAlreadyUsed
	}
	return err
}

// UpdateStatus lee el status anterior y escribe el nuevo bajo el mismo lock,
// para que el servicio pueda detectar la transición a paid exactamente una vez.
func (r *InvoicesRepo) UpdateStatus(ctx context.Context, id string, status invoices.Status, paidAt *time.Time, updatedAt time.Time) (invoices.Invoice, invoices.Status, error) {
	var (
		inv      invoices.Invoice
		previous invoices.Status
	)

	err := runInTx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, invoiceSelect+` WHERE id = $1 FOR UPDATE`, id)
		current, err := scanInvoice(row)
		if err != nil {
			if err == sql.ErrNoRows {
				return invoices.ErrNotFound
			}
			return err
		}

		previous = current.Status
		current.Status = status
		// paid→paid no pisa la fecha de pago original
		if !(previous == invoices.StatusPaid && status == invoices.StatusPaid) {
			current.PaidAt = paidAt
		}
		current.UpdatedAt = updatedAt

		if _, err := tx.ExecContext(ctx, `
			UPDATE show_invoices
			SET status = $2, paid_at = $3, updated_at = $4
			WHERE id = $1
		`, current.ID, current.Status, toNullTime(current.PaidAt), current.UpdatedAt); err != nil {
			return err
		}

		inv = current
		return nil
	})
	if err != nil {
		return invoices.Invoice{}, "", err
	}
	return inv, previous, nil
}

func (r *InvoicesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM show_invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return invoices.ErrNotFound
	}
	return nil
}

func (r *InvoicesRepo) GetByID(ctx context.Context, id string) (invoices.Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return invoices.Invoice{}, invoices.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, invoiceSelect+` WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return invoices.Invoice{}, invoices.ErrNotFound
		}
		return invoices.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoicesRepo) ListByExhibitor(ctx context.Context, exhibitorID string) ([]invoices.Invoice, error) {
	exhibitorID = strings.TrimSpace(exhibitorID)
	if exhibitorID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, invoiceSelect+`
		WHERE exhibitor_id = $1
		ORDER BY created_at ASC
	`, exhibitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]invoices.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

const invoiceSelect = `
	SELECT
		id, exhibitor_id,
		number, amount_cents, due_date,
		status, paid_at,
		created_at, updated_at
	FROM show_invoices
`

func scanInvoice(row rowScanner) (invoices.Invoice, error) {
	var inv invoices.Invoice
	var paidAt sql.NullTime
	if err := row.Scan(
		&inv.ID,
		&inv.ExhibitorID,
		&inv.Number,
		&inv.AmountCents,
		&inv.DueDate,
		&inv.Status,
		&paidAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	); err != nil {
		return invoices.Invoice{}, err
	}
	if paidAt.Valid {
		t := paidAt.Time
		inv.PaidAt = &t
	}
	return inv, nil
}
