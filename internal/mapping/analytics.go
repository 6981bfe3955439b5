package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/shopsphere/client/internal/domain/analytics"
)

// ProductStatPayload is one top-products row on the wire.
type ProductStatPayload struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	SoldCount int             `json:"soldCount"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// SummaryPayload is the dashboard aggregate on the wire.
type SummaryPayload struct {
	Revenue      decimal.Decimal      `json:"revenue"`
	OrderCount   *int                 `json:"orderCount"`
	ProductCount *int                 `json:"productCount"`
	UserCount    *int                 `json:"userCount"`
	TopProducts  []ProductStatPayload `json:"topProducts"`
}

// Summary maps the analytics aggregate. Counts default to zero; the top
// products list keeps its wire order (the backend sorts it).
func Summary(p SummaryPayload) analytics.Summary {
	top := make([]analytics.ProductStat, 0, len(p.TopProducts))
	for _, s := range p.TopProducts {
		top = append(top, analytics.ProductStat{
			ProductID: s.ProductID,
			Name:      s.Name,
			SoldCount: s.SoldCount,
			Revenue:   s.Revenue,
		})
	}
	return analytics.Summary{
		Revenue:      p.Revenue,
		OrderCount:   intOrZero(p.OrderCount),
		ProductCount: intOrZero(p.ProductCount),
		UserCount:    intOrZero(p.UserCount),
		TopProducts:  top,
	}
}
