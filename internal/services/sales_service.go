package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"kiranapos/internal/caching"
	"kiranapos/internal/models"
	"kiranapos/internal/repositories"

	"github.com/google/uuid"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

type SalesService interface {
	GetInvoice(ctx context.Context, accountID, id uuid.UUID) (*models.Invoice, error)
	GetInvoiceByNumber(ctx context.Context, accountID uuid.UUID, invoiceNumber string) (*models.Invoice, error)
	History(ctx context.Context, accountID uuid.UUID, filter *models.InvoiceSearchFilter) ([]*models.Invoice, error)
	Summary(ctx context.Context, accountID uuid.UUID, startDate, endDate time.Time) (*repositories.SalesSummary, error)
	// RefreshSummary recomputes today's summary and rewrites the cached
	// copy. The background scheduler calls this on an interval.
	RefreshSummary(ctx context.Context, accountID uuid.UUID) error
	GSTReport(ctx context.Context, accountID uuid.UUID, startDate, endDate time.Time) ([]repositories.GSTReportRow, error)
}

type salesService struct {
	invoiceRepo  repositories.InvoiceRepository
	cacheService caching.CacheService
}

func NewSalesService(invoiceRepo repositories.InvoiceRepository, cacheService caching.CacheService) SalesService {
	return &salesService{invoiceRepo: invoiceRepo, cacheService: cacheService}
}

func (s *salesService) GetInvoice(ctx context.Context, accountID, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

func (s *salesService) GetInvoiceByNumber(ctx context.Context, accountID uuid.UUID, invoiceNumber string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByNumber(ctx, accountID, invoiceNumber)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

func (s *salesService) History(ctx context.Context, accountID uuid.UUID, filter *models.InvoiceSearchFilter) ([]*models.Invoice, error) {
	if filter == nil {
		filter = &models.InvoiceSearchFilter{}
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, errors.New("end date must not be before start date")
	}
	return s.invoiceRepo.List(ctx, accountID, filter)
}

// summaryPeriod keys the cached summary by day span so distinct date
// ranges never collide.
func summaryPeriod(startDate, endDate time.Time) string {
	return fmt.Sprintf("%s:%s", startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
}

func (s *salesService) Summary(ctx context.Context, accountID uuid.UUID, startDate, endDate time.Time) (*repositories.SalesSummary, error) {
	if endDate.Before(startDate) {
		return nil, errors.New("end date must not be before start date")
	}

	period := summaryPeriod(startDate, endDate)
	if cached, err := s.cacheService.GetSalesSummary(ctx, accountID, period); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("cache error for sales summary %s: %v", period, err)
	}

	summary, err := s.invoiceRepo.Summary(ctx, accountID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetSalesSummary(ctx, accountID, period, summary, 5*time.Minute); cacheErr != nil {
		log.Printf("failed to cache sales summary %s: %v", period, cacheErr)
	}
	return summary, nil
}

func (s *salesService) RefreshSummary(ctx context.Context, accountID uuid.UUID) error {
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	endOfDay := startOfDay.Add(24 * time.Hour)

	summary, err := s.invoiceRepo.Summary(ctx, accountID, startOfDay, endOfDay)
	if err != nil {
		return err
	}
	return s.cacheService.SetSalesSummary(ctx, accountID, summaryPeriod(startOfDay, endOfDay), summary, 10*time.Minute)
}

func (s *salesService) GSTReport(ctx context.Context, accountID uuid.UUID, startDate, endDate time.Time) ([]repositories.GSTReportRow, error) {
	if endDate.Before(startDate) {
		return nil, errors.New("end date must not be before start date")
	}
	return s.invoiceRepo.GetGSTReportData(ctx, accountID, startDate, endDate)
}
