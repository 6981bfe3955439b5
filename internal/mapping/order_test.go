package mapping

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsphere/client/internal/domain/order"
)

func TestOrder_ReflectsStatusAsReceived(t *testing.T) {
	o, err := Order(OrderPayload{
		ID:     "O1",
		Status: "shipped",
		Items: []OrderItemPayload{
			{ProductID: "P1", Quantity: 2, UnitPrice: decimal.NewFromInt(25), Amount: decimal.NewFromInt(50)},
		},
		Total: decimal.RequireFromString("63.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, o.Status)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("63.5")))
}

func TestOrder_MissingRequiredFields(t *testing.T) {
	var mapErr *MappingError

	_, err := Order(OrderPayload{Status: "pending"})
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, "id", mapErr.Field)

	_, err = Order(OrderPayload{ID: "O2"})
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, "status", mapErr.Field)

	_, err = Order(OrderPayload{ID: "O3", Status: "pending", Items: []OrderItemPayload{{Quantity: 1}}})
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, "productId", mapErr.Field)
}

func TestOrders_PreservesOrder(t *testing.T) {
	orders, err := Orders([]OrderPayload{
		{ID: "O2", Status: "pending"},
		{ID: "O1", Status: "paid"},
	})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "O2", orders[0].ID)
}

func TestShop_RequiresCompany(t *testing.T) {
	_, err := Shop(ShopPayload{ID: "S1"})
	var mapErr *MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, "companyId", mapErr.Field)

	s, err := Shop(ShopPayload{ID: "S1", CompanyID: "C1", Name: "Oak & Co"})
	require.NoError(t, err)
	assert.Equal(t, "C1", s.CompanyID)
}

func TestSummary_Defaults(t *testing.T) {
	s := Summary(SummaryPayload{Revenue: decimal.NewFromInt(1200)})
	assert.Equal(t, 0, s.OrderCount)
	assert.NotNil(t, s.TopProducts)
}
