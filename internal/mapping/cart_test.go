package mapping

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_TotalsAlwaysRecomputed(t *testing.T) {
	c, err := Cart(CartPayload{Items: []CartLinePayload{
		{ProductID: "P1", ColorCode: "Red", Price: decimal.NewFromInt(50), Quantity: 1},
	}})
	require.NoError(t, err)

	// Wire totals are never trusted; locally derived values apply.
	assert.True(t, c.Totals.Subtotal.Equal(decimal.NewFromInt(50)))
	assert.True(t, c.Totals.Shipping.Equal(decimal.NewFromInt(10)))
	assert.True(t, c.Totals.Tax.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, c.Totals.Total.Equal(decimal.RequireFromString("63.5")))
}

func TestCart_LegacyColorField(t *testing.T) {
	c, err := Cart(CartPayload{Items: []CartLinePayload{
		{ProductID: "P1", ColorCodeAlt: "Blue", Price: decimal.NewFromInt(5), Quantity: 2},
	}})
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "Blue", c.Lines[0].ColorCode)
}

func TestCart_DefaultsQuantityToOne(t *testing.T) {
	c, err := Cart(CartPayload{Items: []CartLinePayload{
		{ProductID: "P1", Price: decimal.NewFromInt(5)},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestCart_MissingProductID(t *testing.T) {
	_, err := Cart(CartPayload{Items: []CartLinePayload{{Quantity: 1}}})
	var mapErr *MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, "productId", mapErr.Field)
}

func TestCart_PreservesLineOrder(t *testing.T) {
	c, err := Cart(CartPayload{Items: []CartLinePayload{
		{ProductID: "P2", Price: decimal.NewFromInt(1), Quantity: 1},
		{ProductID: "P1", Price: decimal.NewFromInt(1), Quantity: 1},
	}})
	require.NoError(t, err)
	require.Len(t, c.Lines, 2)
	assert.Equal(t, "P2", c.Lines[0].ProductID)
	assert.Equal(t, "P1", c.Lines[1].ProductID)
}
