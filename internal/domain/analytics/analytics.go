package analytics

import "github.com/shopspring/decimal"

// ProductStat is one row of the top-products table.
type ProductStat struct {
	ProductID string
	Name      string
	SoldCount int
	Revenue   decimal.Decimal
}

// Summary is the seller/admin dashboard aggregate. Values are reflected from
// the backend, never computed client-side.
type Summary struct {
	Revenue      decimal.Decimal
	OrderCount   int
	ProductCount int
	UserCount    int
	TopProducts  []ProductStat
}
