package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLine(t *testing.T, productID, color string, price int64, qty int) Line {
	t.Helper()
	l, err := NewLine(productID, color, "name-"+productID, "img-"+productID, decimal.NewFromInt(price), qty)
	require.NoError(t, err)
	return l
}

func TestNewLine_Validation(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		quantity  int
		wantErr   bool
	}{
		{name: "valid", productID: "P1", quantity: 1},
		{name: "missing product id", productID: "", quantity: 1, wantErr: true},
		{name: "zero quantity", productID: "P1", quantity: 0, wantErr: true},
		{name: "negative quantity", productID: "P1", quantity: -2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLine(tt.productID, "Red", "n", "i", decimal.NewFromInt(10), tt.quantity)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComputeTotals_PureAndIdempotent(t *testing.T) {
	lines := []Line{
		mustLine(t, "P1", "Red", 50, 1),
		mustLine(t, "P2", "Blue", 20, 2),
	}

	first := ComputeTotals(lines)
	second := ComputeTotals(lines)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Shipping.Equal(second.Shipping))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Shipping.IsZero(), "no shipping charge on an empty cart")
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestCart_MergeIncrementsExistingLine(t *testing.T) {
	c := New()
	c.Merge(mustLine(t, "P1", "Red", 50, 1))
	c.Merge(mustLine(t, "P1", "Red", 50, 2))

	require.Len(t, c.Lines, 1, "repeat add must merge, never duplicate")
	assert.Equal(t, 3, c.Lines[0].Quantity)
}

func TestCart_DifferentColorsAreDistinctLines(t *testing.T) {
	c := New()
	c.Merge(mustLine(t, "P1", "Red", 50, 1))
	c.Merge(mustLine(t, "P1", "Blue", 50, 1))

	assert.Len(t, c.Lines, 2)
}

func TestCart_RemoveAbsentProductIsNoOp(t *testing.T) {
	c := New()
	c.Merge(mustLine(t, "P1", "Red", 50, 1))
	before := c.Clone()

	c.RemoveProduct("does-not-exist")

	assert.Equal(t, before.Lines, c.Lines)
	assert.True(t, before.Totals.Total.Equal(c.Totals.Total))
}

func TestCart_SetQuantity(t *testing.T) {
	c := New()
	c.Merge(mustLine(t, "P1", "Red", 50, 1))

	require.NoError(t, c.SetQuantity("P1", 5))
	assert.Equal(t, 5, c.Lines[0].Quantity, "set replaces, not adds")

	err := c.SetQuantity("P9", 2)
	assert.ErrorIs(t, err, ErrLineNotFound)

	err = c.SetQuantity("P1", 0)
	assert.Error(t, err)
}

func TestCart_EndToEndTotals(t *testing.T) {
	c := New()

	c.Merge(mustLine(t, "P1", "Red", 50, 1))
	assert.True(t, c.Totals.Subtotal.Equal(decimal.NewFromInt(50)))
	assert.True(t, c.Totals.Shipping.Equal(decimal.NewFromInt(10)))
	assert.True(t, c.Totals.Tax.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, c.Totals.Total.Equal(decimal.RequireFromString("63.5")))

	c.Merge(mustLine(t, "P1", "Red", 50, 2))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	assert.True(t, c.Totals.Subtotal.Equal(decimal.NewFromInt(150)))
	assert.True(t, c.Totals.Tax.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, c.Totals.Total.Equal(decimal.RequireFromString("170.5")))

	c.RemoveProduct("P1")
	assert.Empty(t, c.Lines)
	assert.True(t, c.Totals.Total.IsZero())
}
