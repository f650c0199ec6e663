package gst

import (
	"testing"

	"kiranapos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestCompute_EmptyCart(t *testing.T) {
	for _, interState := range []bool{false, true} {
		breakdown, err := Compute(nil, interState)
		require.NoError(t, err)
		assert.Equal(t, models.TaxBreakdown{}, breakdown)

		breakdown, err = Compute([]models.LineItem{}, interState)
		require.NoError(t, err)
		assert.Equal(t, models.TaxBreakdown{}, breakdown)
	}
}

func TestCompute_SingleItemIntraState(t *testing.T) {
	items := []models.LineItem{
		{Name: "Parle-G", UnitPrice: 80.00, Quantity: 1, TaxRatePercent: 5},
	}

	breakdown, err := Compute(items, false)
	require.NoError(t, err)

	assert.Equal(t, 2.00, breakdown.CGST)
	assert.Equal(t, 2.00, breakdown.SGST)
	assert.Equal(t, 0.00, breakdown.IGST)
	assert.Equal(t, 4.00, breakdown.TotalTax)
}

func TestCompute_SingleItemInterState(t *testing.T) {
	items := []models.LineItem{
		{Name: "Refrigerator", UnitPrice: 15000.00, Quantity: 1, TaxRatePercent: 18},
	}

	breakdown, err := Compute(items, true)
	require.NoError(t, err)

	assert.Equal(t, 0.00, breakdown.CGST)
	assert.Equal(t, 0.00, breakdown.SGST)
	assert.Equal(t, 2700.00, breakdown.IGST)
	assert.Equal(t, 2700.00, breakdown.TotalTax)
}

func TestCompute_MixedRatesIntraState(t *testing.T) {
	items := []models.LineItem{
		{Name: "Biscuits", UnitPrice: 80, Quantity: 1, TaxRatePercent: 5},
		{Name: "Detergent", UnitPrice: 500, Quantity: 2, TaxRatePercent: 12},
	}

	breakdown, err := Compute(items, false)
	require.NoError(t, err)

	// item1: 4.00 tax (2+2), item2: 1000 * 12% = 120.00 (60+60)
	assert.Equal(t, 62.00, breakdown.CGST)
	assert.Equal(t, 62.00, breakdown.SGST)
	assert.Equal(t, 0.00, breakdown.IGST)
	assert.Equal(t, 124.00, breakdown.TotalTax)
}

func TestCompute_InvalidTaxRate(t *testing.T) {
	cases := []float64{-0.01, -5, 100.01, 180}
	for _, rate := range cases {
		items := []models.LineItem{
			{Name: "Bad", UnitPrice: 10, Quantity: 1, TaxRatePercent: rate},
		}
		_, err := Compute(items, false)
		assert.ErrorIs(t, err, ErrInvalidTaxRate, "rate %v must be rejected", rate)
	}
}

func TestCompute_BoundaryRates(t *testing.T) {
	items := []models.LineItem{
		{Name: "Exempt", UnitPrice: 50, Quantity: 2, TaxRatePercent: 0},
		{Name: "Full", UnitPrice: 10, Quantity: 1, TaxRatePercent: 100},
	}

	breakdown, err := Compute(items, false)
	require.NoError(t, err)

	assert.Equal(t, 5.00, breakdown.CGST)
	assert.Equal(t, 5.00, breakdown.SGST)
	assert.Equal(t, 10.00, breakdown.TotalTax)
}

func TestCompute_IntraStateHalvesAlwaysEqual(t *testing.T) {
	carts := [][]models.LineItem{
		{{Name: "A", UnitPrice: 33.33, Quantity: 3, TaxRatePercent: 5}},
		{{Name: "B", UnitPrice: 19.99, Quantity: 7, TaxRatePercent: 18}},
		{
			{Name: "C", UnitPrice: 0.05, Quantity: 1, TaxRatePercent: 12, HSNCode: strPtr("3402")},
			{Name: "D", UnitPrice: 249.50, Quantity: 2, TaxRatePercent: 28},
			{Name: "E", UnitPrice: 12.75, Quantity: 11, TaxRatePercent: 5},
		},
	}

	for _, cart := range carts {
		breakdown, err := Compute(cart, false)
		require.NoError(t, err)
		assert.Equal(t, breakdown.CGST, breakdown.SGST)
		assert.Equal(t, 0.00, breakdown.IGST)
		assert.Equal(t, breakdown.CGST+breakdown.SGST, breakdown.TotalTax)
	}
}

func TestCompute_InterStateSingleBucket(t *testing.T) {
	cart := []models.LineItem{
		{Name: "A", UnitPrice: 33.33, Quantity: 3, TaxRatePercent: 5},
		{Name: "B", UnitPrice: 19.99, Quantity: 7, TaxRatePercent: 18},
	}

	breakdown, err := Compute(cart, true)
	require.NoError(t, err)

	assert.Equal(t, 0.00, breakdown.CGST)
	assert.Equal(t, 0.00, breakdown.SGST)
	assert.Equal(t, breakdown.IGST, breakdown.TotalTax)
}

// The total must be the sum of the rounded components, not a re-rounding of
// the raw aggregate. 50.30 at 2% intra-state gives raw halves of 0.503
// each; rounded they are 0.50 + 0.50 = 1.00, while rounding the raw
// aggregate 1.006 once would give 1.01. The printed parts must win.
func TestCompute_TotalIsSumOfRoundedParts(t *testing.T) {
	items := []models.LineItem{
		{Name: "Soap", UnitPrice: 50.30, Quantity: 1, TaxRatePercent: 2},
	}

	breakdown, err := Compute(items, false)
	require.NoError(t, err)

	assert.Equal(t, 0.50, breakdown.CGST)
	assert.Equal(t, 0.50, breakdown.SGST)
	assert.Equal(t, 1.00, breakdown.TotalTax)
	assert.Equal(t, breakdown.CGST+breakdown.SGST+breakdown.IGST, breakdown.TotalTax)
}

func TestCompute_Idempotent(t *testing.T) {
	items := []models.LineItem{
		{Name: "A", UnitPrice: 33.33, Quantity: 3, TaxRatePercent: 5},
		{Name: "B", UnitPrice: 19.99, Quantity: 7, TaxRatePercent: 18},
		{Name: "C", UnitPrice: 0.01, Quantity: 1, TaxRatePercent: 28},
	}

	first, err := Compute(items, false)
	require.NoError(t, err)
	second, err := Compute(items, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompute_AccumulatesBeforeRounding(t *testing.T) {
	// Each line's raw half-tax is 0.004 (0.10 * 8% / 2). Rounding per line
	// would zero everything; accumulating first gives 0.04 per half.
	var items []models.LineItem
	for i := 0; i < 10; i++ {
		items = append(items, models.LineItem{Name: "Penny candy", UnitPrice: 0.10, Quantity: 1, TaxRatePercent: 8})
	}

	breakdown, err := Compute(items, false)
	require.NoError(t, err)

	assert.Equal(t, 0.04, breakdown.CGST)
	assert.Equal(t, 0.04, breakdown.SGST)
	assert.Equal(t, 0.08, breakdown.TotalTax)
}

func TestRoundPaise(t *testing.T) {
	assert.Equal(t, 1.01, RoundPaise(1.006))
	assert.Equal(t, 1.00, RoundPaise(1.004))
	assert.Equal(t, 0.00, RoundPaise(0))
	assert.Equal(t, 12.34, RoundPaise(12.34))
	assert.Equal(t, 2700.00, RoundPaise(2700.0000001))
}
