package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRef is a back-reference to a category: id plus display fields only,
// never the owned entity.
type CategoryRef struct {
	ID   string
	Name string
}

// CompanyRef is a back-reference to the selling company.
type CompanyRef struct {
	ID   string
	Name string
	Logo string
}

// Comment is a single user comment attached to a product.
type Comment struct {
	ID        string
	UserID    string
	UserName  string
	Text      string
	CreatedAt time.Time
}

// Interactions aggregates the social state of a product. A canonical Product
// always carries a non-nil Interactions value; absent wire fields default to
// zero counts and an empty comment list.
type Interactions struct {
	Likes    int
	Shares   int
	Comments []Comment
	// Liked reports whether the current user has liked the product.
	Liked bool
}

// UserPreferences carries the current user's saved preferences for a product.
type UserPreferences struct {
	Colors   []string
	Quantity int
}

// Product is the canonical product entity consumed by the rest of the
// application. It is produced only by the mapping layer.
type Product struct {
	ID          string
	Name        string
	Description string
	Images      []string
	Colors      []string
	Price       decimal.Decimal
	Discount    decimal.Decimal
	// Discount window. Zero values mean no active discount period.
	DiscountFrom time.Time
	DiscountTo   time.Time

	Category CategoryRef
	Company  CompanyRef

	Interactions Interactions
	// Preferences is nil when the backend returned none for the current user.
	Preferences *UserPreferences
}

// ModerationStatus is the seller-visible review state of a product.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// IsValid checks if the status is a known ModerationStatus
func (s ModerationStatus) IsValid() bool {
	switch s {
	case ModerationPending, ModerationApproved, ModerationRejected:
		return true
	}
	return false
}

// SellerProduct is the seller-privileged view of a product. It extends the
// public shape with moderation state, counters, and the free-form feature
// table shown on the seller dashboard.
type SellerProduct struct {
	Product

	Status    ModerationStatus
	ViewCount int
	SoldCount int
	// Features is the free-form specification table (label -> value).
	Features map[string]string
}

// DiscountedPrice returns the effective unit price at the given instant.
// Outside the discount window the list price applies unchanged.
func (p *Product) DiscountedPrice(at time.Time) decimal.Decimal {
	if p.Discount.IsZero() {
		return p.Price
	}
	if !p.DiscountFrom.IsZero() && at.Before(p.DiscountFrom) {
		return p.Price
	}
	if !p.DiscountTo.IsZero() && at.After(p.DiscountTo) {
		return p.Price
	}
	return p.Price.Sub(p.Discount)
}
