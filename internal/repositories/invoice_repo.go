package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kiranapos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrInsufficientStock reports a checkout that tried to sell more units
// than the shelf holds. The whole sale rolls back.
var ErrInsufficientStock = errors.New("insufficient stock")

// GSTReportRow is one invoice flattened for GST filings and exports.
type GSTReportRow struct {
	InvoiceID     uuid.UUID            `json:"invoice_id"`
	InvoiceNumber string               `json:"invoice_number"`
	CustomerName  *string              `json:"customer_name"`
	CustomerPhone *string              `json:"customer_phone"`
	ItemCount     int                  `json:"item_count"`
	Subtotal      float64              `json:"subtotal"`
	CGST          float64              `json:"cgst"`
	SGST          float64              `json:"sgst"`
	IGST          float64              `json:"igst"`
	TotalTax      float64              `json:"total_tax"`
	Total         float64              `json:"total"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	IssuedAt      time.Time            `json:"issued_at"`
}

// SalesSummary aggregates one account's sales over a window.
type SalesSummary struct {
	InvoiceCount int     `json:"invoice_count"`
	ItemsSold    int     `json:"items_sold"`
	Subtotal     float64 `json:"subtotal"`
	TaxCollected float64 `json:"tax_collected"`
	TotalSales   float64 `json:"total_sales"`
	CashSales    float64 `json:"cash_sales"`
	CardSales    float64 `json:"card_sales"`
	UPISales     float64 `json:"upi_sales"`
}

type InvoiceRepository interface {
	// CreateSale atomically assigns the invoice number, writes the invoice
	// with its item snapshots, and decrements product stock. Oversell
	// fails the whole transaction with ErrInsufficientStock.
	CreateSale(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Invoice, error)
	GetByNumber(ctx context.Context, accountID uuid.UUID, invoiceNumber string) (*models.Invoice, error)
	List(ctx context.Context, accountID uuid.UUID, filter *models.InvoiceSearchFilter) ([]*models.Invoice, error)
	GetGSTReportData(ctx context.Context, accountID uuid.UUID, startDate, endDate time.Time) ([]GSTReportRow, error)
	Summary(ctx context.Context, accountID uuid.UUID, startDate, endDate time.Time) (*SalesSummary, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepo(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

// nextInvoiceNumber reserves the next number in the account's monthly
// sequence. The upsert is atomic, so two concurrent checkouts can never
// observe the same value.
func nextInvoiceNumber(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, issuedAt time.Time) (string, error) {
	yearMonth := issuedAt.Format("2006-01")

	query := `
		WITH upsert AS (
			INSERT INTO invoice_sequences (account_id, year_month, last_number)
			VALUES ($1, $2, 1)
			ON CONFLICT (account_id, year_month)
			DO UPDATE SET
				last_number = invoice_sequences.last_number + 1,
				updated_at = NOW()
			RETURNING last_number
		)
		SELECT last_number FROM upsert;
	`

	var sequenceNum int
	if err := tx.QueryRow(ctx, query, accountID, yearMonth).Scan(&sequenceNum); err != nil {
		return "", fmt.Errorf("failed to advance invoice sequence: %w", err)
	}

	// INV-<acct8>-YYYY-MM-NNNNNN: unique per account, sorts with creation order.
	accountSuffix := accountID.String()[len(accountID.String())-8:]
	return fmt.Sprintf("INV-%s-%s-%06d", strings.ToUpper(accountSuffix), yearMonth, sequenceNum), nil
}

func (r *invoiceRepo) CreateSale(ctx context.Context, invoice *models.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin checkout transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	number, err := nextInvoiceNumber(ctx, tx, invoice.AccountID, invoice.IssuedAt)
	if err != nil {
		return err
	}
	invoice.InvoiceNumber = number

	insertInvoice := `
		INSERT INTO invoices (id, account_id, invoice_number, customer_id, subtotal, cgst, sgst, igst, total_tax, total, inter_state, payment_method, issued_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
	`
	_, err = tx.Exec(ctx, insertInvoice, invoice.ID, invoice.AccountID, invoice.InvoiceNumber, invoice.CustomerID, invoice.Subtotal, invoice.Tax.CGST, invoice.Tax.SGST, invoice.Tax.IGST, invoice.Tax.TotalTax, invoice.Total, invoice.InterState, invoice.PaymentMethod, invoice.IssuedAt)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	insertItem := `
		INSERT INTO invoice_items (id, invoice_id, product_id, name, hsn_code, unit_price, quantity, tax_rate_percent, line_total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	decrementStock := `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE account_id = $2 AND id = $3 AND stock >= $1
	`
	for pos, item := range invoice.Items {
		if _, err := tx.Exec(ctx, insertItem, item.ID, item.InvoiceID, item.ProductID, item.Name, item.HSNCode, item.UnitPrice, item.Quantity, item.TaxRatePercent, item.LineTotal, pos); err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}

		tag, err := tx.Exec(ctx, decrementStock, item.Quantity, invoice.AccountID, item.ProductID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w for product %s", ErrInsufficientStock, item.ProductID)
		}
	}

	return tx.Commit(ctx)
}

const invoiceColumns = `id, account_id, invoice_number, customer_id, subtotal, cgst, sgst, igst, total_tax, total, inter_state, payment_method, issued_at, created_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := row.Scan(&invoice.ID, &invoice.AccountID, &invoice.InvoiceNumber, &invoice.CustomerID, &invoice.Subtotal, &invoice.Tax.CGST, &invoice.Tax.SGST, &invoice.Tax.IGST, &invoice.Tax.TotalTax, &invoice.Total, &invoice.InterState, &invoice.PaymentMethod, &invoice.IssuedAt, &invoice.CreatedAt)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE account_id = $1 AND id = $2
	`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, accountID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) GetByNumber(ctx context.Context, accountID uuid.UUID, invoiceNumber string) (*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE account_id = $1 AND invoice_number = $2
	`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, accountID, invoiceNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) loadItems(ctx context.Context, invoice *models.Invoice) error {
	query := `
		SELECT id, invoice_id, product_id, name, hsn_code, unit_price, quantity, tax_rate_percent, line_total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY position ASC
	`
	rows, err := r.db.Query(ctx, query, invoice.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.ProductID, &item.Name, &item.HSNCode, &item.UnitPrice, &item.Quantity, &item.TaxRatePercent, &item.LineTotal); err != nil {
			return err
		}
		invoice.Items = append(invoice.Items, item)
	}
	return rows.Err()
}

func (r *invoiceRepo) List(ctx context.Context, accountID uuid.UUID, filter *models.InvoiceSearchFilter) ([]*models.Invoice, error) {
	conditions := []string{"account_id = $1"}
	args := []any{accountID}
	argPos := 2

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("issued_at >= $%d", argPos))
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("issued_at < $%d", argPos))
		args = append(args, *filter.EndDate)
		argPos++
	}
	if filter.PaymentMethod != nil {
		conditions = append(conditions, fmt.Sprintf("payment_method = $%d", argPos))
		args = append(args, *filter.PaymentMethod)
		argPos++
	}
	if filter.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *filter.CustomerID)
		argPos++
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM invoices
		WHERE %s
		ORDER BY issued_at DESC
		LIMIT $%d OFFSET $%d
	`, invoiceColumns, strings.Join(conditions, " AND "), argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) GetGSTReportData(ctx context.Context, accountID uuid.UUID, startDate, endDate time.Time) ([]GSTReportRow, error) {
	query := `
		SELECT i.id, i.invoice_number, c.name, c.phone,
			(SELECT COUNT(*) FROM invoice_items ii WHERE ii.invoice_id = i.id),
			i.subtotal, i.cgst, i.sgst, i.igst, i.total_tax, i.total, i.payment_method, i.issued_at
		FROM invoices i
		LEFT JOIN customers c ON c.id = i.customer_id
		WHERE i.account_id = $1 AND i.issued_at >= $2 AND i.issued_at < $3
		ORDER BY i.issued_at ASC
	`
	rows, err := r.db.Query(ctx, query, accountID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []GSTReportRow
	for rows.Next() {
		var row GSTReportRow
		if err := rows.Scan(&row.InvoiceID, &row.InvoiceNumber, &row.CustomerName, &row.CustomerPhone, &row.ItemCount, &row.Subtotal, &row.CGST, &row.SGST, &row.IGST, &row.TotalTax, &row.Total, &row.PaymentMethod, &row.IssuedAt); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

func (r *invoiceRepo) Summary(ctx context.Context, accountID uuid.UUID, startDate, endDate time.Time) (*SalesSummary, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE((SELECT SUM(ii.quantity) FROM invoice_items ii JOIN invoices iv ON iv.id = ii.invoice_id WHERE iv.account_id = $1 AND iv.issued_at >= $2 AND iv.issued_at < $3), 0),
			COALESCE(SUM(subtotal), 0),
			COALESCE(SUM(total_tax), 0),
			COALESCE(SUM(total), 0),
			COALESCE(SUM(total) FILTER (WHERE payment_method = 'cash'), 0),
			COALESCE(SUM(total) FILTER (WHERE payment_method = 'card'), 0),
			COALESCE(SUM(total) FILTER (WHERE payment_method = 'upi'), 0)
		FROM invoices
		WHERE account_id = $1 AND issued_at >= $2 AND issued_at < $3
	`
	summary := &SalesSummary{}
	err := r.db.QueryRow(ctx, query, accountID, startDate, endDate).Scan(
		&summary.InvoiceCount, &summary.ItemsSold, &summary.Subtotal, &summary.TaxCollected,
		&summary.TotalSales, &summary.CashSales, &summary.CardSales, &summary.UPISales,
	)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
