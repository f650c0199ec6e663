package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"kiranapos/internal/billing"
	"kiranapos/internal/caching"
	"kiranapos/internal/gst"
	"kiranapos/internal/models"
	"kiranapos/internal/repositories"

	"github.com/google/uuid"
)

// CheckoutItem references a catalog product by ID; the service snapshots
// the current name, price, GST rate and HSN code at sale time so later
// catalog edits never rewrite history.
type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CheckoutRequest is one complete sale rung up at the register.
type CheckoutRequest struct {
	Items         []CheckoutItem       `json:"items"`
	CustomerName  string               `json:"customer_name,omitempty"`
	CustomerPhone string               `json:"customer_phone,omitempty"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	InterState    bool                 `json:"inter_state"`
}

type CheckoutService interface {
	// Checkout computes GST, assembles the invoice and persists it in one
	// transaction together with the stock decrements. Oversell surfaces
	// as repositories.ErrInsufficientStock with no partial writes.
	Checkout(ctx context.Context, accountID uuid.UUID, req *CheckoutRequest) (*models.Invoice, error)
}

type checkoutService struct {
	productRepo     repositories.ProductRepository
	invoiceRepo     repositories.InvoiceRepository
	customerService CustomerService
	cacheService    caching.CacheService
}

func NewCheckoutService(productRepo repositories.ProductRepository, invoiceRepo repositories.InvoiceRepository, customerService CustomerService, cacheService caching.CacheService) CheckoutService {
	return &checkoutService{
		productRepo:     productRepo,
		invoiceRepo:     invoiceRepo,
		customerService: customerService,
		cacheService:    cacheService,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, accountID uuid.UUID, req *CheckoutRequest) (*models.Invoice, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, billing.ErrEmptyCart
	}
	if !req.PaymentMethod.Valid() {
		return nil, billing.ErrInvalidPaymentMethod
	}

	lineItems, err := s.snapshotItems(ctx, accountID, req.Items)
	if err != nil {
		return nil, err
	}

	breakdown, err := gst.Compute(lineItems, req.InterState)
	if err != nil {
		return nil, err
	}

	var customer *models.Customer
	if strings.TrimSpace(req.CustomerName) != "" || strings.TrimSpace(req.CustomerPhone) != "" {
		customer, err = s.customerService.GetOrCreateByPhone(ctx, accountID, req.CustomerName, req.CustomerPhone)
		if err != nil {
			return nil, err
		}
	}

	invoice, err := billing.Build(lineItems, breakdown, customer, req.PaymentMethod, req.InterState, time.Now())
	if err != nil {
		return nil, err
	}
	invoice.AccountID = accountID

	if err := s.invoiceRepo.CreateSale(ctx, invoice); err != nil {
		return nil, err
	}

	// Stock changed under the cached copies
	for _, item := range req.Items {
		if cacheErr := s.cacheService.DeleteProduct(ctx, accountID, item.ProductID); cacheErr != nil {
			log.Printf("failed to invalidate product cache %s: %v", item.ProductID.String(), cacheErr)
		}
	}

	return invoice, nil
}

// snapshotItems resolves each cart reference against the catalog and
// merges duplicate lines for the same product.
func (s *checkoutService) snapshotItems(ctx context.Context, accountID uuid.UUID, items []CheckoutItem) ([]models.LineItem, error) {
	merged := make(map[uuid.UUID]int, len(items))
	order := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, errors.New("item quantity must be positive")
		}
		if _, seen := merged[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		merged[item.ProductID] += item.Quantity
	}

	lineItems := make([]models.LineItem, 0, len(order))
	for _, productID := range order {
		product, err := s.productRepo.GetByID(ctx, accountID, productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("product %s: %w", productID.String(), ErrProductNotFound)
		}
		quantity := merged[productID]
		if product.Stock < quantity {
			return nil, fmt.Errorf("%s: %w", product.Name, repositories.ErrInsufficientStock)
		}

		lineItems = append(lineItems, models.LineItem{
			ProductID:      product.ID,
			Name:           product.Name,
			UnitPrice:      product.UnitPrice,
			Quantity:       quantity,
			TaxRatePercent: product.GSTRatePercent,
			HSNCode:        product.HSNCode,
		})
	}
	return lineItems, nil
}
