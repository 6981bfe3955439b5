package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/shopsphere/client/internal/domain/cart"
)

// CartLinePayload is one wire cart row. Newer endpoints spell the color key
// "colorCode", older ones "color".
type CartLinePayload struct {
	ProductID    string          `json:"productId"`
	ColorCode    string          `json:"colorCode"`
	ColorCodeAlt string          `json:"color"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
}

// CartPayload is the wire cart. Any totals the backend includes are ignored:
// totals are always recomputed locally from the lines so they cannot drift.
type CartPayload struct {
	Items []CartLinePayload `json:"items"`
}

// Cart maps a wire cart to the canonical Cart, preserving line order and
// recomputing totals. A line missing its product id fails the whole cart.
func Cart(p CartPayload) (*cart.Cart, error) {
	c := cart.New()
	for _, item := range p.Items {
		if item.ProductID == "" {
			return nil, missingField("cartLine", "productId")
		}
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		line, err := cart.NewLine(
			item.ProductID,
			firstNonEmpty(item.ColorCode, item.ColorCodeAlt),
			item.Name,
			item.Image,
			item.Price,
			quantity,
		)
		if err != nil {
			return nil, err
		}
		c.Lines = append(c.Lines, line)
	}
	c.Recompute()
	return c, nil
}
