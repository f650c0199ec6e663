package services

import (
	"context"
	"testing"
	"time"

	"kiranapos/internal/models"
	"kiranapos/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SalesServiceTestSuite struct {
	suite.Suite
	invoiceRepo  *MockInvoiceRepository
	cacheService *MockCacheService
	service      SalesService
	accountID    uuid.UUID
}

func (suite *SalesServiceTestSuite) SetupTest() {
	suite.invoiceRepo = new(MockInvoiceRepository)
	suite.cacheService = new(MockCacheService)
	suite.service = NewSalesService(suite.invoiceRepo, suite.cacheService)
	suite.accountID = uuid.New()
}

func (suite *SalesServiceTestSuite) TestGetInvoice_NotFound() {
	invoiceID := uuid.New()
	suite.invoiceRepo.On("GetByID", mock.Anything, suite.accountID, invoiceID).Return(nil, nil)

	invoice, err := suite.service.GetInvoice(context.Background(), suite.accountID, invoiceID)

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, ErrInvoiceNotFound)
}

func (suite *SalesServiceTestSuite) TestHistory_ClampsPaging() {
	suite.invoiceRepo.On("List", mock.Anything, suite.accountID, mock.MatchedBy(func(f *models.InvoiceSearchFilter) bool {
		return f.Limit == 50 && f.Offset == 0
	})).Return([]*models.Invoice{}, nil)

	_, err := suite.service.History(context.Background(), suite.accountID, &models.InvoiceSearchFilter{Limit: 9999, Offset: -1})

	assert.NoError(suite.T(), err)
	suite.invoiceRepo.AssertExpectations(suite.T())
}

func (suite *SalesServiceTestSuite) TestHistory_RejectsInvertedDateRange() {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -5)

	_, err := suite.service.History(context.Background(), suite.accountID, &models.InvoiceSearchFilter{
		StartDate: &start,
		EndDate:   &end,
	})

	assert.Error(suite.T(), err)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "List")
}

func (suite *SalesServiceTestSuite) TestSummary_CacheHitSkipsRepo() {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	cached := &repositories.SalesSummary{InvoiceCount: 12, TotalSales: 4820.50}

	suite.cacheService.On("GetSalesSummary", mock.Anything, suite.accountID, "2026-03-01:2026-03-02").Return(cached, nil)

	summary, err := suite.service.Summary(context.Background(), suite.accountID, start, end)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 12, summary.InvoiceCount)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "Summary")
}

func (suite *SalesServiceTestSuite) TestSummary_CacheMissComputesAndStores() {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	computed := &repositories.SalesSummary{InvoiceCount: 3, TotalSales: 912.00}

	suite.cacheService.On("GetSalesSummary", mock.Anything, suite.accountID, "2026-03-01:2026-03-02").Return(nil, nil)
	suite.invoiceRepo.On("Summary", mock.Anything, suite.accountID, start, end).Return(computed, nil)
	suite.cacheService.On("SetSalesSummary", mock.Anything, suite.accountID, "2026-03-01:2026-03-02", computed, 5*time.Minute).Return(nil)

	summary, err := suite.service.Summary(context.Background(), suite.accountID, start, end)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), computed, summary)
	suite.cacheService.AssertExpectations(suite.T())
}

func (suite *SalesServiceTestSuite) TestGSTReport_RejectsInvertedRange() {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := suite.service.GSTReport(context.Background(), suite.accountID, start, start.AddDate(0, 0, -1))

	assert.Error(suite.T(), err)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "GetGSTReportData")
}

func TestSalesServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SalesServiceTestSuite))
}
