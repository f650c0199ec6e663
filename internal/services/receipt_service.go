package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"kiranapos/internal/billing"
	"kiranapos/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// ReceiptService renders GST receipts as PDFs and stores them in object
// storage. Receipts render only from the frozen invoice snapshots, so a
// reprint months later matches the original to the paisa.
type ReceiptService interface {
	Render(invoice *models.Invoice, profile *models.BusinessProfile) ([]byte, error)
	// Generate renders the receipt, uploads it and returns a presigned
	// download URL valid for the given expiry.
	Generate(ctx context.Context, invoice *models.Invoice, profile *models.BusinessProfile, expiry time.Duration) (string, error)
}

type receiptService struct {
	minioSvc MinioService
	bucket   string
}

func NewReceiptService(minioSvc MinioService, bucket string) ReceiptService {
	return &receiptService{minioSvc: minioSvc, bucket: bucket}
}

func (s *receiptService) Generate(ctx context.Context, invoice *models.Invoice, profile *models.BusinessProfile, expiry time.Duration) (string, error) {
	pdfBytes, err := s.Render(invoice, profile)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("receipts/%s/%s.pdf", invoice.AccountID.String(), invoice.InvoiceNumber)
	if err := s.minioSvc.Upload(ctx, s.bucket, objectName, "application/pdf", bytes.NewReader(pdfBytes), int64(len(pdfBytes))); err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}

	url, err := s.minioSvc.GetPresignedURL(ctx, s.bucket, objectName, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign receipt: %w", err)
	}
	return url, nil
}

func (s *receiptService) Render(invoice *models.Invoice, profile *models.BusinessProfile) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)

	// Store header
	pdf.SetXY(marginX, marginY)
	storeName := "TAX INVOICE"
	if profile != nil && profile.Name != "" {
		storeName = profile.Name
	}
	pdf.Cell(0, 10, storeName)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 9)
	if profile != nil {
		if profile.Address != "" {
			pdf.Cell(0, 5, fmt.Sprintf("%s, %s, %s - %s", profile.Address, profile.City, profile.State, profile.Pincode))
			pdf.Ln(5)
		}
		if profile.Phone != "" {
			pdf.Cell(0, 5, fmt.Sprintf("Phone: %s", profile.Phone))
			pdf.Ln(5)
		}
		if profile.GSTIN != "" {
			pdf.Cell(0, 5, fmt.Sprintf("GSTIN: %s", profile.GSTIN))
			pdf.Ln(5)
		}
	}
	pdf.Ln(5)

	// Invoice details
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Number: %s", invoice.InvoiceNumber))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", invoice.IssuedAt.Format("02-Jan-2006 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Payment: %s", string(invoice.PaymentMethod)))
	pdf.Ln(6)

	if invoice.Customer != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, "BILL TO:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, invoice.Customer.Name)
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Phone: %s", invoice.Customer.Phone))
		pdf.Ln(6)
		if invoice.Customer.GSTIN != nil && *invoice.Customer.GSTIN != "" {
			pdf.Cell(0, 6, fmt.Sprintf("GSTIN: %s", *invoice.Customer.GSTIN))
			pdf.Ln(6)
		}
	}
	pdf.Ln(5)

	// Items table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)

	headers := []string{"Item", "HSN", "Qty", "Rate", "GST%", "Amount"}
	colWidths := []float64{60, 20, 15, 25, 20, 30}

	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)

	for _, line := range billing.ReceiptLines(invoice) {
		hsn := ""
		if line.HSNCode != nil {
			hsn = *line.HSNCode
		}
		pdf.CellFormat(colWidths[0], 8, line.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, hsn, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%.1f", line.TaxRatePercent), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[5], 8, fmt.Sprintf("%.2f", line.LineTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(5)

	// Totals section
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(140, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", invoice.Subtotal), "", 0, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 9)
	if invoice.InterState {
		pdf.CellFormat(140, 5, "IGST:", "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 5, fmt.Sprintf("%.2f", invoice.Tax.IGST), "", 0, "R", false, 0, "")
		pdf.Ln(5)
	} else {
		pdf.CellFormat(140, 5, "CGST:", "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 5, fmt.Sprintf("%.2f", invoice.Tax.CGST), "", 0, "R", false, 0, "")
		pdf.Ln(5)
		pdf.CellFormat(140, 5, "SGST:", "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 5, fmt.Sprintf("%.2f", invoice.Tax.SGST), "", 0, "R", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(140, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", invoice.Total), "", 0, "R", false, 0, "")
	pdf.Ln(12)

	// Footer
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(0, 5, "Thank you for shopping with us!")
	pdf.Ln(5)
	pdf.Cell(0, 5, "This is a computer generated invoice")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
