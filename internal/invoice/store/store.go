package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/kpraj/billbook/internal/invoice"
	"github.com/kpraj/billbook/internal/money"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateInvoice writes the header and all lines inside one database
// transaction. The invoice number is drawn from a sequence in the same
// transaction, so concurrent submitters can never collide, and readers can
// never observe a header without its lines.
func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	headerQuery := `
		INSERT INTO invoices (invoice_number, customer_name, customer_address, customer_email, customer_phone, created_by, grand_total, created_at)
		VALUES ('INV-' || to_char(nextval('invoice_number_seq'), 'FM000000'), $1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, NOW())
		RETURNING id, invoice_number, created_at
	`

	err = dbTx.QueryRowContext(ctx, headerQuery,
		inv.CustomerName,
		inv.CustomerAddress,
		inv.CustomerEmail,
		inv.CustomerPhone,
		inv.CreatedBy,
		inv.GrandTotal.Minor(),
	).Scan(&inv.ID, &inv.Number, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting invoice header: %w", err)
	}

	lineQuery := `
		INSERT INTO invoice_lines (invoice_id, position, product_name, unit_price, quantity, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i, line := range inv.Lines {
		_, err := dbTx.ExecContext(ctx, lineQuery,
			inv.ID,
			i,
			line.ProductName,
			line.UnitPrice.Minor(),
			line.Quantity,
			line.LineTotal.Minor(),
		)
		if err != nil {
			return fmt.Errorf("inserting invoice line %d: %w", i, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing invoice: %w", err)
	}

	return nil
}

const selectInvoiceColumns = `
	id, invoice_number, customer_name, COALESCE(customer_address, ''), COALESCE(customer_email, ''),
	customer_phone, created_by, grand_total, created_at
`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var (
		inv   invoice.Invoice
		total int64
	)

	if err := s.Scan(
		&inv.ID, &inv.Number, &inv.CustomerName, &inv.CustomerAddress, &inv.CustomerEmail,
		&inv.CustomerPhone, &inv.CreatedBy, &total, &inv.CreatedAt,
	); err != nil {
		return nil, err
	}

	inv.GrandTotal = money.FromMinor(total)

	return &inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	if inv.Lines, err = s.loadLines(ctx, inv.ID); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices`

	var args []any

	if filter.CreatedBy != nil {
		query += ` WHERE created_by = $1`

		args = append(args, *filter.CreatedBy)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	for _, inv := range invoices {
		if inv.Lines, err = s.loadLines(ctx, inv.ID); err != nil {
			return nil, err
		}
	}

	return invoices, nil
}

func (s *Store) loadLines(ctx context.Context, invoiceID uuid.UUID) ([]invoice.Line, error) {
	query := `
		SELECT product_name, unit_price, quantity, line_total
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listing invoice lines: %w", err)
	}
	defer rows.Close()

	var lines []invoice.Line

	for rows.Next() {
		var (
			line      invoice.Line
			unitPrice int64
			lineTotal int64
		)

		if err := rows.Scan(&line.ProductName, &unitPrice, &line.Quantity, &lineTotal); err != nil {
			return nil, fmt.Errorf("scanning invoice line: %w", err)
		}

		line.UnitPrice = money.FromMinor(unitPrice)
		line.LineTotal = money.FromMinor(lineTotal)

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating line rows: %w", err)
	}

	return lines, nil
}
