package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/shopsphere/client/internal/domain/payment"
)

// MethodPayload is a stored payment method on the wire.
type MethodPayload struct {
	ID        string `json:"_id"`
	IDAlt     string `json:"id"`
	UserID    string `json:"userId"`
	Brand     string `json:"brand"`
	Last4     string `json:"last4"`
	ExpMonth  int    `json:"expMonth"`
	ExpYear   int    `json:"expYear"`
	IsDefault bool   `json:"isDefault"`
}

// IntentPayload is a payment initiation result on the wire. Amount is in
// minor currency units.
type IntentPayload struct {
	ID           string `json:"_id"`
	IDAlt        string `json:"id"`
	OrderID      string `json:"orderId"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	ClientSecret string `json:"clientSecret"`
	CreatedAt    string `json:"createdAt"`
}

// IntentRequest is the outbound payment initiation body. Amount is in minor
// currency units, converted on the way out by NewIntentRequest.
type IntentRequest struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	MethodID string `json:"methodId"`
}

// Method maps a wire payment method.
func Method(p MethodPayload) (payment.Method, error) {
	id := firstNonEmpty(p.ID, p.IDAlt)
	if id == "" {
		return payment.Method{}, missingField("paymentMethod", "id")
	}
	if p.Last4 == "" {
		return payment.Method{}, missingField("paymentMethod", "last4")
	}
	return payment.Method{
		ID:        id,
		UserID:    p.UserID,
		Brand:     p.Brand,
		Last4:     p.Last4,
		ExpMonth:  p.ExpMonth,
		ExpYear:   p.ExpYear,
		IsDefault: p.IsDefault,
	}, nil
}

// Methods maps a payment method list, preserving input order.
func Methods(payloads []MethodPayload) ([]payment.Method, error) {
	out := make([]payment.Method, 0, len(payloads))
	for _, p := range payloads {
		mapped, err := Method(p)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

// Intent maps a wire payment intent, converting the minor-unit amount to a
// major-unit decimal (1299 -> 12.99).
func Intent(p IntentPayload) (payment.Intent, error) {
	id := firstNonEmpty(p.ID, p.IDAlt)
	if id == "" {
		return payment.Intent{}, missingField("paymentIntent", "id")
	}
	if p.Status == "" {
		return payment.Intent{}, missingField("paymentIntent", "status")
	}
	return payment.Intent{
		ID:           id,
		OrderID:      p.OrderID,
		Amount:       payment.FromMinorUnits(p.Amount),
		Currency:     p.Currency,
		Status:       payment.IntentStatus(p.Status),
		ClientSecret: p.ClientSecret,
		CreatedAt:    parseWireTime(p.CreatedAt),
	}, nil
}

// NewIntentRequest builds the outbound initiation body, converting the
// major-unit amount to minor units (12.99 -> 1299).
func NewIntentRequest(orderID, methodID, currency string, amount decimal.Decimal) IntentRequest {
	return IntentRequest{
		OrderID:  orderID,
		Amount:   payment.ToMinorUnits(amount),
		Currency: currency,
		MethodID: methodID,
	}
}
