package services

import (
	"context"
	"testing"
	"time"

	"kiranapos/internal/billing"
	"kiranapos/internal/models"
	"kiranapos/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateSale(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetByNumber(ctx context.Context, accountID uuid.UUID, invoiceNumber string) (*models.Invoice, error) {
	args := m.Called(ctx, accountID, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, accountID uuid.UUID, filter *models.InvoiceSearchFilter) ([]*models.Invoice, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetGSTReportData(ctx context.Context, accountID uuid.UUID, startDate, endDate time.Time) ([]repositories.GSTReportRow, error) {
	args := m.Called(ctx, accountID, startDate, endDate)
	return args.Get(0).([]repositories.GSTReportRow), args.Error(1)
}

func (m *MockInvoiceRepository) Summary(ctx context.Context, accountID uuid.UUID, startDate, endDate time.Time) (*repositories.SalesSummary, error) {
	args := m.Called(ctx, accountID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.SalesSummary), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByPhone(ctx context.Context, accountID uuid.UUID, phone string) (*models.Customer, error) {
	args := m.Called(ctx, accountID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*models.Customer, error) {
	args := m.Called(ctx, accountID, limit, offset)
	return args.Get(0).([]*models.Customer), args.Error(1)
}

type CheckoutServiceTestSuite struct {
	suite.Suite
	productRepo  *MockProductRepository
	invoiceRepo  *MockInvoiceRepository
	customerRepo *MockCustomerRepository
	cacheService *MockCacheService
	service      CheckoutService
	accountID    uuid.UUID
}

func (suite *CheckoutServiceTestSuite) SetupTest() {
	suite.productRepo = new(MockProductRepository)
	suite.invoiceRepo = new(MockInvoiceRepository)
	suite.customerRepo = new(MockCustomerRepository)
	suite.cacheService = new(MockCacheService)
	customerService := NewCustomerService(suite.customerRepo)
	suite.service = NewCheckoutService(suite.productRepo, suite.invoiceRepo, customerService, suite.cacheService)
	suite.accountID = uuid.New()
}

func (suite *CheckoutServiceTestSuite) product(name string, price float64, rate float64, stock int) *models.Product {
	return &models.Product{
		ID:             uuid.New(),
		AccountID:      suite.accountID,
		Name:           name,
		UnitPrice:      price,
		GSTRatePercent: rate,
		Stock:          stock,
	}
}

func (suite *CheckoutServiceTestSuite) TestCheckout_IntraStateTotalsReconcile() {
	salt := suite.product("Tata Salt 1kg", 80, 5, 10)
	oil := suite.product("Fortune Oil 1L", 500, 12, 10)

	suite.productRepo.On("GetByID", mock.Anything, suite.accountID, salt.ID).Return(salt, nil)
	suite.productRepo.On("GetByID", mock.Anything, suite.accountID, oil.ID).Return(oil, nil)
	suite.invoiceRepo.On("CreateSale", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil)
	suite.cacheService.On("DeleteProduct", mock.Anything, suite.accountID, salt.ID).Return(nil)
	suite.cacheService.On("DeleteProduct", mock.Anything, suite.accountID, oil.ID).Return(nil)

	invoice, err := suite.service.Checkout(context.Background(), suite.accountID, &CheckoutRequest{
		Items: []CheckoutItem{
			{ProductID: salt.ID, Quantity: 1},
			{ProductID: oil.ID, Quantity: 2},
		},
		PaymentMethod: models.PaymentUPI,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.accountID, invoice.AccountID)
	assert.InDelta(suite.T(), 1080.0, invoice.Subtotal, 1e-9)
	assert.InDelta(suite.T(), 62.0, invoice.Tax.CGST, 1e-9)
	assert.InDelta(suite.T(), 62.0, invoice.Tax.SGST, 1e-9)
	assert.InDelta(suite.T(), 0.0, invoice.Tax.IGST, 1e-9)
	assert.InDelta(suite.T(), 1204.0, invoice.Total, 1e-9)
	suite.invoiceRepo.AssertExpectations(suite.T())
}

func (suite *CheckoutServiceTestSuite) TestCheckout_SnapshotsCatalogValues() {
	hsn := "0902"
	tea := suite.product("Red Label Tea 500g", 260, 5, 3)
	tea.HSNCode = &hsn

	suite.productRepo.On("GetByID", mock.Anything, suite.accountID, tea.ID).Return(tea, nil)
	suite.invoiceRepo.On("CreateSale", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil)
	suite.cacheService.On("DeleteProduct", mock.Anything, suite.accountID, tea.ID).Return(nil)

	invoice, err := suite.service.Checkout(context.Background(), suite.accountID, &CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: tea.ID, Quantity: 1}},
		PaymentMethod: models.PaymentCash,
	})

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), invoice.Items, 1)
	item := invoice.Items[0]
	assert.Equal(suite.T(), "Red Label Tea 500g", item.Name)
	assert.Equal(suite.T(), 260.0, item.UnitPrice)
	assert.Equal(suite.T(), 5.0, item.TaxRatePercent)
	assert.Equal(suite.T(), "0902", *item.HSNCode)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_MergesDuplicateLines() {
	biscuits := suite.product("Parle-G", 10, 18, 20)

	suite.productRepo.On("GetByID", mock.Anything, suite.accountID, biscuits.ID).Return(biscuits, nil).Once()
	suite.invoiceRepo.On("CreateSale", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil)
	suite.cacheService.On("DeleteProduct", mock.Anything, suite.accountID, biscuits.ID).Return(nil)

	invoice, err := suite.service.Checkout(context.Background(), suite.accountID, &CheckoutRequest{
		Items: []CheckoutItem{
			{ProductID: biscuits.ID, Quantity: 2},
			{ProductID: biscuits.ID, Quantity: 3},
		},
		PaymentMethod: models.PaymentCash,
	})

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), invoice.Items, 1)
	assert.Equal(suite.T(), 5, invoice.Items[0].Quantity)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_InterStateUsesIGST() {
	tv := suite.product("LED TV 43in", 15000, 18, 2)

	suite.productRepo.On("GetByID", mock.Anything, suite.accountID, tv.ID).Return(tv, nil)
	suite.invoiceRepo.On("CreateSale", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil)
	suite.cacheService.On("DeleteProduct", mock.Anything, suite.accountID, tv.ID).Return(nil)

	invoice, err := suite.service.Checkout(context.Background(), suite.accountID, &CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: tv.ID, Quantity: 1}},
		PaymentMethod: models.PaymentCard,
		InterState:    true,
	})

	assert.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 2700.0, invoice.Tax.IGST, 1e-9)
	assert.InDelta(suite.T(), 0.0, invoice.Tax.CGST, 1e-9)
	assert.InDelta(suite.T(), 0.0, invoice.Tax.SGST, 1e-9)
	assert.InDelta(suite.T(), 17700.0, invoice.Total, 1e-9)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_EmptyCartRejected() {
	invoice, err := suite.service.Checkout(context.Background(), suite.accountID, &CheckoutRequest{
		PaymentMethod: models.PaymentCash,
	})

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, billing.ErrEmptyCart)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "CreateSale")
}

func (suite *CheckoutServiceTestSuite) TestCheckout_InvalidPaymentMethodRejected() {
	invoice, err := suite.service.Checkout(context.Background(), suite.accountID, &CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: uuid.New(), Quantity: 1}},
		PaymentMethod: models.PaymentMethod("cheque"),
	})

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, billing.ErrInvalidPaymentMethod)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_InsufficientStockBlocksSale() {
	rice := suite.product("Basmati Rice 5kg", 600, 5, 1)

	suite.productRepo.On("GetByID", mock.Anything, suite.accountID, rice.ID).Return(rice, nil)

	invoice, err := suite.service.Checkout(context.Background(), suite.accountID, &CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: rice.ID, Quantity: 3}},
		PaymentMethod: models.PaymentCash,
	})

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, repositories.ErrInsufficientStock)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "CreateSale")
}

func (suite *CheckoutServiceTestSuite) TestCheckout_ReturningCustomerReused() {
	soap := suite.product("Lifebuoy Soap", 35, 18, 50)
	existing := &models.Customer{
		ID:        uuid.New(),
		AccountID: suite.accountID,
		Name:      "Ramesh Kumar",
		Phone:     "9876543210",
	}

	suite.productRepo.On("GetByID", mock.Anything, suite.accountID, soap.ID).Return(soap, nil)
	suite.customerRepo.On("GetByPhone", mock.Anything, suite.accountID, "9876543210").Return(existing, nil)
	suite.invoiceRepo.On("CreateSale", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil)
	suite.cacheService.On("DeleteProduct", mock.Anything, suite.accountID, soap.ID).Return(nil)

	invoice, err := suite.service.Checkout(context.Background(), suite.accountID, &CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: soap.ID, Quantity: 2}},
		CustomerName:  "Ramesh Kumar",
		CustomerPhone: "9876543210",
		PaymentMethod: models.PaymentUPI,
	})

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), invoice.CustomerID)
	assert.Equal(suite.T(), existing.ID, *invoice.CustomerID)
	suite.customerRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *CheckoutServiceTestSuite) TestCheckout_NewCustomerCreated() {
	soap := suite.product("Lifebuoy Soap", 35, 18, 50)

	suite.productRepo.On("GetByID", mock.Anything, suite.accountID, soap.ID).Return(soap, nil)
	suite.customerRepo.On("GetByPhone", mock.Anything, suite.accountID, "9123456789").Return(nil, nil)
	suite.customerRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Customer")).Return(nil)
	suite.invoiceRepo.On("CreateSale", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(nil)
	suite.cacheService.On("DeleteProduct", mock.Anything, suite.accountID, soap.ID).Return(nil)

	invoice, err := suite.service.Checkout(context.Background(), suite.accountID, &CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: soap.ID, Quantity: 1}},
		CustomerName:  "Sunita Devi",
		CustomerPhone: "9123456789",
		PaymentMethod: models.PaymentCash,
	})

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), invoice.Customer)
	assert.Equal(suite.T(), "Sunita Devi", invoice.Customer.Name)
	suite.customerRepo.AssertExpectations(suite.T())
}

func (suite *CheckoutServiceTestSuite) TestCheckout_PartialCustomerRejected() {
	soap := suite.product("Lifebuoy Soap", 35, 18, 50)
	suite.productRepo.On("GetByID", mock.Anything, suite.accountID, soap.ID).Return(soap, nil)

	_, err := suite.service.Checkout(context.Background(), suite.accountID, &CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: soap.ID, Quantity: 1}},
		CustomerPhone: "9876543210",
		PaymentMethod: models.PaymentCash,
	})

	assert.ErrorIs(suite.T(), err, billing.ErrInvalidCustomer)
	suite.customerRepo.AssertNotCalled(suite.T(), "GetByPhone")
	suite.invoiceRepo.AssertNotCalled(suite.T(), "CreateSale")
}

func (suite *CheckoutServiceTestSuite) TestCheckout_CustomerWithoutPhoneRejected() {
	soap := suite.product("Lifebuoy Soap", 35, 18, 50)
	suite.productRepo.On("GetByID", mock.Anything, suite.accountID, soap.ID).Return(soap, nil)

	_, err := suite.service.Checkout(context.Background(), suite.accountID, &CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: soap.ID, Quantity: 1}},
		CustomerName:  "Sunita Devi",
		PaymentMethod: models.PaymentCash,
	})

	assert.ErrorIs(suite.T(), err, billing.ErrInvalidCustomer)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "CreateSale")
}

func (suite *CheckoutServiceTestSuite) TestCheckout_RepoFailurePropagates() {
	milk := suite.product("Amul Milk 1L", 66, 5, 10)

	suite.productRepo.On("GetByID", mock.Anything, suite.accountID, milk.ID).Return(milk, nil)
	suite.invoiceRepo.On("CreateSale", mock.Anything, mock.AnythingOfType("*models.Invoice")).Return(repositories.ErrInsufficientStock)

	invoice, err := suite.service.Checkout(context.Background(), suite.accountID, &CheckoutRequest{
		Items:         []CheckoutItem{{ProductID: milk.ID, Quantity: 1}},
		PaymentMethod: models.PaymentCash,
	})

	assert.Nil(suite.T(), invoice)
	assert.ErrorIs(suite.T(), err, repositories.ErrInsufficientStock)
	suite.cacheService.AssertNotCalled(suite.T(), "DeleteProduct")
}

func TestCheckoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}
