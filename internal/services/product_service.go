package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"kiranapos/internal/caching"
	"kiranapos/internal/models"
	"kiranapos/internal/repositories"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

type ProductService interface {
	Create(ctx context.Context, accountID uuid.UUID, product *models.Product) error
	GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, accountID uuid.UUID, product *models.Product) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
	List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*models.Product, error)
	GetByBarcode(ctx context.Context, accountID uuid.UUID, barcode string) (*models.Product, error)
	Search(ctx context.Context, accountID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error)
	ListLowStock(ctx context.Context, accountID uuid.UUID, threshold int) ([]*models.Product, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	cacheService caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, cacheService caching.CacheService) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cacheService: cacheService,
	}
}

func (s *productService) Create(ctx context.Context, accountID uuid.UUID, product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return errors.New("product name is required")
	}
	if product.UnitPrice <= 0 {
		return errors.New("unit price must be positive")
	}
	if product.GSTRatePercent < 0 || product.GSTRatePercent > 100 {
		return errors.New("gst rate must be between 0 and 100")
	}
	if product.Stock < 0 {
		return errors.New("stock cannot be negative")
	}

	// Barcodes identify a single product within the account
	if product.Barcode != nil && strings.TrimSpace(*product.Barcode) != "" {
		existing, err := s.productRepo.GetByBarcode(ctx, accountID, *product.Barcode)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("barcode %s already exists for another product", *product.Barcode)
		}
	}

	product.AccountID = accountID
	if product.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, accountID, *product.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return errors.New("category not found")
		}
	}
	product.ID = uuid.New()
	return s.productRepo.Create(ctx, product)
}

func (s *productService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cacheService.GetProduct(ctx, accountID, id); cached != nil {
		return cached, nil
	} else if err != nil {
		// Cache errors never fail a read
		log.Printf("cache error for product %s: %v", id.String(), err)
	}

	product, err := s.productRepo.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if cacheErr := s.cacheService.SetProduct(ctx, accountID, product, 15*time.Minute); cacheErr != nil {
		log.Printf("failed to cache product %s: %v", id.String(), cacheErr)
	}

	return product, nil
}

func (s *productService) Update(ctx context.Context, accountID uuid.UUID, product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return errors.New("product name is required")
	}
	if product.UnitPrice <= 0 {
		return errors.New("unit price must be positive")
	}
	if product.GSTRatePercent < 0 || product.GSTRatePercent > 100 {
		return errors.New("gst rate must be between 0 and 100")
	}
	if product.Stock < 0 {
		return errors.New("stock cannot be negative")
	}

	product.AccountID = accountID
	existing, err := s.productRepo.GetByID(ctx, accountID, product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}

	if product.Barcode != nil && strings.TrimSpace(*product.Barcode) != "" {
		other, err := s.productRepo.GetByBarcode(ctx, accountID, *product.Barcode)
		if err != nil {
			return err
		}
		if other != nil && other.ID != product.ID {
			return fmt.Errorf("barcode %s already exists for another product", *product.Barcode)
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteProduct(ctx, accountID, product.ID); cacheErr != nil {
		log.Printf("failed to invalidate product cache %s: %v", product.ID.String(), cacheErr)
	}
	return nil
}

func (s *productService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, accountID, id); err != nil {
		return err
	}
	if cacheErr := s.cacheService.DeleteProduct(ctx, accountID, id); cacheErr != nil {
		log.Printf("failed to invalidate product cache %s: %v", id.String(), cacheErr)
	}
	return nil
}

func (s *productService) List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.productRepo.List(ctx, accountID, limit, offset)
}

func (s *productService) GetByBarcode(ctx context.Context, accountID uuid.UUID, barcode string) (*models.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, errors.New("barcode is required")
	}
	product, err := s.productRepo.GetByBarcode(ctx, accountID, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *productService) Search(ctx context.Context, accountID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	if filter == nil {
		filter = &models.ProductSearchFilter{}
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.productRepo.Search(ctx, accountID, filter)
}

func (s *productService) ListLowStock(ctx context.Context, accountID uuid.UUID, threshold int) ([]*models.Product, error) {
	if threshold < 0 {
		threshold = 0
	}
	return s.productRepo.ListLowStock(ctx, accountID, threshold)
}
