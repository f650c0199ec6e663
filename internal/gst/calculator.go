// Package gst computes CGST/SGST/IGST breakdowns for a cart of line items.
// Every call site that needs tax numbers (cart preview, checkout, receipt)
// goes through Compute so the rounding can never diverge between them.
package gst

import (
	"errors"
	"math"

	"kiranapos/internal/models"
)

// ErrInvalidTaxRate reports a line item whose GST rate is outside [0,100].
// Out-of-range rates are upstream data corruption and are never clamped.
var ErrInvalidTaxRate = errors.New("tax rate must be between 0 and 100")

// RoundPaise rounds an amount to 2 decimal places, half away from zero.
// This matches the multiply-round-divide convention used on printed
// invoices, where 0.005 always rounds up to a full paisa.
func RoundPaise(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Compute calculates the GST breakdown for a cart. interState selects IGST;
// otherwise the tax for each item is split evenly between CGST and SGST.
//
// The split happens per item, not on the aggregate, so a future asymmetric
// split ratio would remain correct per line. Accumulation is done at full
// float64 precision; each of the three components is rounded to the paisa
// independently, and TotalTax is the sum of the rounded components. Summing
// after rounding keeps the displayed parts reconciling exactly with the
// displayed total.
//
// An empty cart is valid and yields a zero breakdown. Compute is pure and
// safe for concurrent use.
func Compute(items []models.LineItem, interState bool) (models.TaxBreakdown, error) {
	var cgst, sgst, igst float64

	for _, item := range items {
		if item.TaxRatePercent < 0 || item.TaxRatePercent > 100 {
			return models.TaxBreakdown{}, ErrInvalidTaxRate
		}

		lineTotal := item.UnitPrice * float64(item.Quantity)
		lineTax := lineTotal * item.TaxRatePercent / 100

		if interState {
			igst += lineTax
		} else {
			cgst += lineTax / 2
			sgst += lineTax / 2
		}
	}

	breakdown := models.TaxBreakdown{
		CGST: RoundPaise(cgst),
		SGST: RoundPaise(sgst),
		IGST: RoundPaise(igst),
	}
	breakdown.TotalTax = breakdown.CGST + breakdown.SGST + breakdown.IGST

	return breakdown, nil
}
