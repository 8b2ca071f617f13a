package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/docuparse/invoice-extract/internal/common"
	"github.com/docuparse/invoice-extract/internal/entity"
)

// InvoiceRepository persists extracted invoice records.
type InvoiceRepository interface {
	Save(ctx context.Context, inv entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	List(ctx context.Context, from, to *time.Time) ([]entity.Invoice, error)
}

type sqliteInvoiceRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewInvoiceRepository(db *sql.DB, logger *slog.Logger) InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &sqliteInvoiceRepository{db: db, logger: logger}
}

// Save writes the invoice and its line items in one transaction, replacing
// any prior row with the same id.
func (r *sqliteInvoiceRepository) Save(ctx context.Context, inv entity.Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return common.WrapError(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO invoices
			(id, party, invoice_number, invoice_date, subtotal, tax, total,
			 grand_total, source_path, confidence, needs_review, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID.String(), inv.Party, inv.InvoiceNumber, inv.Date,
		inv.Subtotal.String(), inv.Tax.String(), inv.Total.String(),
		inv.GrandTotal.String(), inv.SourcePath, inv.Confidence,
		boolToInt(inv.NeedsReview), inv.ExtractedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return common.WrapError(err, "insert invoice")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM line_items WHERE invoice_id = ?`, inv.ID.String()); err != nil {
		return common.WrapError(err, "clear line items")
	}
	for i, item := range inv.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO line_items (invoice_id, position, code, name, quantity, rate, amount)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			inv.ID.String(), i, item.Code, item.Name,
			item.Quantity.String(), item.Rate.String(), item.Amount.String(),
		)
		if err != nil {
			return common.WrapError(err, "insert line item")
		}
	}

	if err := tx.Commit(); err != nil {
		return common.WrapError(err, "commit")
	}
	r.logger.Debug("invoice saved", "invoice_id", inv.ID, "items", len(inv.Items))
	return nil
}

func (r *sqliteInvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, party, invoice_number, invoice_date, subtotal, tax, total,
		       grand_total, source_path, confidence, needs_review, extracted_at
		FROM invoices WHERE id = ?`, id.String())

	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewAppError("INVOICE_NOT_FOUND", id.String(), common.ErrNotFound)
		}
		return nil, common.WrapError(err, "query invoice")
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

// List returns invoices whose extraction time falls in [from, to], newest
// first. Nil bounds are open.
func (r *sqliteInvoiceRepository) List(ctx context.Context, from, to *time.Time) ([]entity.Invoice, error) {
	q := `
		SELECT id, party, invoice_number, invoice_date, subtotal, tax, total,
		       grand_total, source_path, confidence, needs_review, extracted_at
		FROM invoices WHERE 1=1`
	var args []any
	if from != nil {
		q += ` AND extracted_at >= ?`
		args = append(args, from.UTC().Format(time.RFC3339))
	}
	if to != nil {
		q += ` AND extracted_at <= ?`
		args = append(args, to.UTC().Format(time.RFC3339))
	}
	q += ` ORDER BY extracted_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, common.WrapError(err, "query invoices")
	}
	defer func() { _ = rows.Close() }()

	var out []entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan invoice")
		}
		items, err := r.loadItems(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Items = items
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (r *sqliteInvoiceRepository) loadItems(ctx context.Context, id uuid.UUID) ([]entity.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT code, name, quantity, rate, amount
		FROM line_items WHERE invoice_id = ? ORDER BY position`, id.String())
	if err != nil {
		return nil, common.WrapError(err, "query line items")
	}
	defer func() { _ = rows.Close() }()

	var items []entity.LineItem
	for rows.Next() {
		var it entity.LineItem
		var qty, rate, amount string
		if err := rows.Scan(&it.Code, &it.Name, &qty, &rate, &amount); err != nil {
			return nil, common.WrapError(err, "scan line item")
		}
		it.Quantity = mustDecimal(qty)
		it.Rate = mustDecimal(rate)
		it.Amount = mustDecimal(amount)
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var id, subtotal, tax, total, grand, extractedAt string
	var needsReview int
	err := row.Scan(&id, &inv.Party, &inv.InvoiceNumber, &inv.Date,
		&subtotal, &tax, &total, &grand, &inv.SourcePath, &inv.Confidence,
		&needsReview, &extractedAt)
	if err != nil {
		return nil, err
	}
	inv.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	inv.Subtotal = mustDecimal(subtotal)
	inv.Tax = mustDecimal(tax)
	inv.Total = mustDecimal(total)
	inv.GrandTotal = mustDecimal(grand)
	inv.NeedsReview = needsReview != 0
	if t, err := time.Parse(time.RFC3339, extractedAt); err == nil {
		inv.ExtractedAt = t
	}
	return &inv, nil
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
