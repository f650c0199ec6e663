package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kiranapos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
	List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*models.Product, error)
	GetByBarcode(ctx context.Context, accountID uuid.UUID, barcode string) (*models.Product, error)
	Search(ctx context.Context, accountID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error)
	ListLowStock(ctx context.Context, accountID uuid.UUID, threshold int) ([]*models.Product, error)
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, account_id, category_id, name, barcode, hsn_code, unit_price, gst_rate_percent, stock, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.AccountID, &product.CategoryID, &product.Name, &product.Barcode, &product.HSNCode, &product.UnitPrice, &product.GSTRatePercent, &product.Stock, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, account_id, category_id, name, barcode, hsn_code, unit_price, gst_rate_percent, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.AccountID, product.CategoryID, product.Name, product.Barcode, product.HSNCode, product.UnitPrice, product.GSTRatePercent, product.Stock)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE account_id = $1 AND id = $2
	`
	product, err := scanProduct(r.db.QueryRow(ctx, query, accountID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return product, err
}

func (r *productRepo) GetByBarcode(ctx context.Context, accountID uuid.UUID, barcode string) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE account_id = $1 AND barcode = $2
	`
	product, err := scanProduct(r.db.QueryRow(ctx, query, accountID, barcode))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return product, err
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, barcode = $3, hsn_code = $4, unit_price = $5, gst_rate_percent = $6, stock = $7, updated_at = NOW()
		WHERE account_id = $8 AND id = $9
	`
	_, err := r.db.Exec(ctx, query, product.CategoryID, product.Name, product.Barcode, product.HSNCode, product.UnitPrice, product.GSTRatePercent, product.Stock, product.AccountID, product.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	query := `DELETE FROM products WHERE account_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, accountID, id)
	return err
}

func (r *productRepo) List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE account_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Search covers the POS search box: name substring or exact barcode,
// optionally narrowed to a category and to in-stock items.
func (r *productRepo) Search(ctx context.Context, accountID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	conditions := []string{"account_id = $1"}
	args := []any{accountID}
	argPos := 2

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR barcode = $%d)", argPos, argPos+1))
		args = append(args, "%"+filter.Query+"%", filter.Query)
		argPos += 2
	}
	if filter.Barcode != nil {
		conditions = append(conditions, fmt.Sprintf("barcode = $%d", argPos))
		args = append(args, *filter.Barcode)
		argPos++
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argPos))
		args = append(args, *filter.CategoryID)
		argPos++
	}
	if filter.InStock {
		conditions = append(conditions, "stock > 0")
	}
	if filter.MaxStock != nil {
		conditions = append(conditions, fmt.Sprintf("stock <= $%d", argPos))
		args = append(args, *filter.MaxStock)
		argPos++
	}

	sortBy := "name"
	switch filter.SortBy {
	case "created_at", "stock", "unit_price", "name":
		sortBy = filter.SortBy
	}
	sortOrder := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		sortOrder = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, productColumns, strings.Join(conditions, " AND "), sortBy, sortOrder, argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *productRepo) ListLowStock(ctx context.Context, accountID uuid.UUID, threshold int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE account_id = $1 AND stock <= $2
		ORDER BY stock ASC, name ASC
	`
	rows, err := r.db.Query(ctx, query, accountID, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]*models.Product, error) {
	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
