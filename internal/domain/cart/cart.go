package cart

import (
	"github.com/shopspring/decimal"

	"github.com/shopsphere/client/internal/domain/shared"
)

// ErrLineNotFound is returned when an operation targets a line that is not in
// the cart. SetQuantity reports it; Remove deliberately does not.
var ErrLineNotFound = shared.NewDomainError("LINE_NOT_FOUND", "Cart line not found")

// shippingFlatFee is charged whenever the cart is non-empty. The upstream
// sources disagree on whether shipping should instead be free above a
// subtotal threshold; the flat fee is the behavior that ships. Keep the rule
// inside computeShipping so changing it touches exactly one place.
var shippingFlatFee = decimal.NewFromInt(10)

// taxRate is applied to the subtotal.
var taxRate = decimal.RequireFromString("0.07")

// Line is one row of a cart. The (ProductID, ColorCode) pair is the
// uniqueness key; Name, Image and Price are a display snapshot captured when
// the line was first added.
type Line struct {
	ProductID string          `json:"productId"`
	ColorCode string          `json:"colorCode"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// NewLine creates a cart line, enforcing the quantity invariant.
func NewLine(productID, colorCode, name, image string, price decimal.Decimal, quantity int) (Line, error) {
	if productID == "" {
		return Line{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return Line{}, shared.ErrInvalidQuantity
	}
	return Line{
		ProductID: productID,
		ColorCode: colorCode,
		Name:      name,
		Image:     image,
		Price:     price,
		Quantity:  quantity,
	}, nil
}

// Amount returns price multiplied by quantity.
func (l Line) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals are the derived monetary values of a cart. They are a pure function
// of the line list and are recomputed on every mutation, never patched
// incrementally.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals derives the cart totals from a line list.
func ComputeTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Amount())
	}
	shipping := computeShipping(subtotal)
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

func computeShipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsPositive() {
		return shippingFlatFee
	}
	return decimal.Zero
}

// Cart is an ordered sequence of lines plus derived totals.
type Cart struct {
	Lines  []Line `json:"lines"`
	Totals Totals `json:"totals"`
}

// New returns an empty cart with zeroed totals.
func New() *Cart {
	return &Cart{
		Lines:  make([]Line, 0),
		Totals: ComputeTotals(nil),
	}
}

// Recompute rederives the totals from the current line list.
func (c *Cart) Recompute() {
	c.Totals = ComputeTotals(c.Lines)
}

// find returns the index of the line matching the (productID, colorCode) key,
// or -1.
func (c *Cart) find(productID, colorCode string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID && l.ColorCode == colorCode {
			return i
		}
	}
	return -1
}

// Merge folds a line into the cart: an existing line with the same
// (productID, colorCode) key has its quantity incremented, otherwise the line
// is appended. Totals are recomputed either way.
func (c *Cart) Merge(line Line) {
	if i := c.find(line.ProductID, line.ColorCode); i >= 0 {
		c.Lines[i].Quantity += line.Quantity
	} else {
		c.Lines = append(c.Lines, line)
	}
	c.Recompute()
}

// RemoveProduct drops every line for the given product id. Removing an absent
// product is a no-op success.
func (c *Cart) RemoveProduct(productID string) {
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
	c.Recompute()
}

// SetQuantity replaces the quantity of the first line matching productID.
// It never creates a line; targeting an absent product returns
// ErrLineNotFound.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return shared.ErrInvalidQuantity
	}
	for i, l := range c.Lines {
		if l.ProductID == productID {
			c.Lines[i].Quantity = quantity
			c.Recompute()
			return nil
		}
	}
	return ErrLineNotFound
}

// ClearLines empties the cart.
func (c *Cart) ClearLines() {
	c.Lines = c.Lines[:0]
	c.Recompute()
}

// Clone returns a deep copy of the cart. The engine hands clones to callers
// so the mirror is never aliased by UI code.
func (c *Cart) Clone() *Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return &Cart{Lines: lines, Totals: c.Totals}
}
