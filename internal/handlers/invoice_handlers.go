package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"kiranapos/internal/common"
	"kiranapos/internal/export"
	"kiranapos/internal/models"
	"kiranapos/internal/services"

	"github.com/labstack/echo/v4"
)

// InvoiceHandlers handles sales history, reports and receipt downloads.
type InvoiceHandlers struct {
	salesService    services.SalesService
	receiptService  services.ReceiptService
	businessService services.BusinessService
}

func NewInvoiceHandlers(salesService services.SalesService, receiptService services.ReceiptService, businessService services.BusinessService) *InvoiceHandlers {
	return &InvoiceHandlers{
		salesService:    salesService,
		receiptService:  receiptService,
		businessService: businessService,
	}
}

func (h *InvoiceHandlers) parseFilter(c echo.Context) (*models.InvoiceSearchFilter, error) {
	filter := &models.InvoiceSearchFilter{}
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filter.Offset, _ = strconv.Atoi(c.QueryParam("offset"))

	if startStr := c.QueryParam("start_date"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, fmt.Errorf("start_date must be in YYYY-MM-DD format")
		}
		filter.StartDate = &start
	}
	if endStr := c.QueryParam("end_date"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, fmt.Errorf("end_date must be in YYYY-MM-DD format")
		}
		// Include the whole end day
		end = end.Add(24*time.Hour - time.Second)
		filter.EndDate = &end
	}
	if methodStr := c.QueryParam("payment_method"); methodStr != "" {
		method := models.PaymentMethod(methodStr)
		if !method.Valid() {
			return nil, fmt.Errorf("payment_method must be cash, card or upi")
		}
		filter.PaymentMethod = &method
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		if err := common.ValidateDateRange(*filter.StartDate, *filter.EndDate); err != nil {
			return nil, err
		}
	}
	if customerIDStr := c.QueryParam("customer_id"); customerIDStr != "" {
		customerID, err := common.ValidateUUID(customerIDStr, "customer_id")
		if err != nil {
			return nil, err
		}
		filter.CustomerID = &customerID
	}
	return filter, nil
}

// ListInvoices handles GET /invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filter, err := h.parseFilter(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoices, err := h.salesService.History(ctx, accountID, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices")
	}

	return c.JSON(http.StatusOK, invoices)
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.salesService.GetInvoice(ctx, accountID, invoiceID)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to retrieve invoice")
	}

	return c.JSON(http.StatusOK, invoice)
}

// GetInvoiceByNumber handles GET /invoices/number/:number
func (h *InvoiceHandlers) GetInvoiceByNumber(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoice, err := h.salesService.GetInvoiceByNumber(ctx, accountID, c.Param("number"))
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to retrieve invoice")
	}

	return c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandlers) parseDateRange(c echo.Context) (time.Time, time.Time, error) {
	startStr := c.QueryParam("start_date")
	endStr := c.QueryParam("end_date")

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	if startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_date must be in YYYY-MM-DD format")
		}
		start = parsed
	}
	if endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date must be in YYYY-MM-DD format")
		}
		end = parsed.Add(24 * time.Hour)
	}
	if err := common.ValidateDateRange(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// GetSummary handles GET /invoices/summary
func (h *InvoiceHandlers) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	start, end, err := h.parseDateRange(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	summary, err := h.salesService.Summary(ctx, accountID, start, end)
	if err != nil {
		return common.SendServerError(c, "Failed to compute sales summary")
	}

	return c.JSON(http.StatusOK, summary)
}

// GetGSTReport handles GET /invoices/gst-report
func (h *InvoiceHandlers) GetGSTReport(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	start, end, err := h.parseDateRange(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	rows, err := h.salesService.GSTReport(ctx, accountID, start, end)
	if err != nil {
		return common.SendServerError(c, "Failed to build GST report")
	}

	return c.JSON(http.StatusOK, rows)
}

// ExportCSV handles GET /invoices/export/csv
func (h *InvoiceHandlers) ExportCSV(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filter, err := h.parseFilter(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoices, err := h.salesService.History(ctx, accountID, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to load invoices for export")
	}

	filename := export.BuildFilename("sales report", "csv")
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().WriteHeader(http.StatusOK)

	if _, err := c.Response().Write(export.BOM); err != nil {
		return err
	}

	w := export.NewCSVWriter(c.Response())
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteInvoices(invoices); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// ExportXLSX handles GET /invoices/export/xlsx
func (h *InvoiceHandlers) ExportXLSX(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filter, err := h.parseFilter(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoices, err := h.salesService.History(ctx, accountID, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to load invoices for export")
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, invoices); err != nil {
		return common.SendServerError(c, "Failed to build workbook")
	}

	filename := export.BuildFilename("sales report", "xlsx")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GetReceipt handles GET /invoices/:id/receipt. It renders the PDF,
// stores it and returns a presigned download URL.
func (h *InvoiceHandlers) GetReceipt(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.salesService.GetInvoice(ctx, accountID, invoiceID)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to retrieve invoice")
	}

	// A missing profile still produces a usable receipt
	profile, err := h.businessService.Get(ctx, accountID)
	if err != nil && !errors.Is(err, services.ErrBusinessProfileNotFound) {
		return common.SendServerError(c, "Failed to load business profile")
	}

	url, err := h.receiptService.Generate(ctx, invoice, profile, 15*time.Minute)
	if err != nil {
		return common.SendServerError(c, "Failed to generate receipt")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"invoice_number": invoice.InvoiceNumber,
		"receipt_url":    url,
	})
}
