package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/shopsphere/client/internal/domain/order"
)

// OrderItemPayload is one wire order line.
type OrderItemPayload struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	ColorCode string          `json:"colorCode"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Amount    decimal.Decimal `json:"amount"`
}

// OrderPayload is the wire order snapshot.
type OrderPayload struct {
	ID        string             `json:"_id"`
	IDAlt     string             `json:"id"`
	UserID    string             `json:"userId"`
	Status    string             `json:"status"`
	Items     []OrderItemPayload `json:"items"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Shipping  decimal.Decimal    `json:"shipping"`
	Tax       decimal.Decimal    `json:"tax"`
	Total     decimal.Decimal    `json:"total"`
	Address   string             `json:"address"`
	CreatedAt string             `json:"createdAt"`
}

// Order maps a wire order to the canonical immutable snapshot. Status is
// reflected as received; this layer never derives a transition.
func Order(p OrderPayload) (order.Order, error) {
	id := firstNonEmpty(p.ID, p.IDAlt)
	if id == "" {
		return order.Order{}, missingField("order", "id")
	}
	if p.Status == "" {
		return order.Order{}, missingField("order", "status")
	}

	items := make([]order.Item, 0, len(p.Items))
	for _, item := range p.Items {
		if item.ProductID == "" {
			return order.Order{}, missingField("orderItem", "productId")
		}
		items = append(items, order.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			ColorCode: item.ColorCode,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		})
	}

	return order.Order{
		ID:        id,
		UserID:    p.UserID,
		Status:    order.Status(p.Status),
		Items:     items,
		Subtotal:  p.Subtotal,
		Shipping:  p.Shipping,
		Tax:       p.Tax,
		Total:     p.Total,
		Address:   p.Address,
		CreatedAt: parseWireTime(p.CreatedAt),
	}, nil
}

// Orders maps an order list, preserving input order.
func Orders(payloads []OrderPayload) ([]order.Order, error) {
	out := make([]order.Order, 0, len(payloads))
	for _, p := range payloads {
		mapped, err := Order(p)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}
