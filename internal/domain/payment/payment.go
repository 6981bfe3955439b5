package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// minorUnitFactor converts between major currency units used internally and
// the minor units (cents) the backend speaks on the wire.
var minorUnitFactor = decimal.NewFromInt(100)

// FromMinorUnits converts a wire amount in minor units to a major-unit
// decimal (1299 -> 12.99).
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(minorUnitFactor)
}

// ToMinorUnits converts a major-unit decimal to wire minor units
// (12.99 -> 1299). Sub-cent fractions are rounded half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitFactor).Round(0).IntPart()
}

// Method is a stored payment method.
type Method struct {
	ID        string
	UserID    string
	Brand     string
	Last4     string
	ExpMonth  int
	ExpYear   int
	IsDefault bool
}

// IntentStatus is the server-reported state of a payment initiation.
type IntentStatus string

const (
	IntentRequiresAction IntentStatus = "requires_action"
	IntentProcessing     IntentStatus = "processing"
	IntentSucceeded      IntentStatus = "succeeded"
	IntentFailed         IntentStatus = "failed"
)

// Intent is the canonical result of a payment initiation call. Amount is in
// major units; the mapping layer owns the minor-unit conversion.
type Intent struct {
	ID           string
	OrderID      string
	Amount       decimal.Decimal
	Currency     string
	Status       IntentStatus
	ClientSecret string
	CreatedAt    time.Time
}
