package mapping

import "github.com/shopsphere/client/internal/domain/partner"

// ShopPayload is a storefront record on the wire.
type ShopPayload struct {
	ID        string `json:"_id"`
	IDAlt     string `json:"id"`
	CompanyID string `json:"companyId"`
	Name      string `json:"name"`
	Banner    string `json:"banner"`
	Theme     string `json:"theme"`
	About     string `json:"about"`
	Published bool   `json:"published"`
}

// Shop maps a wire storefront. The company reference is required; a shop
// without an owning company cannot be rendered.
func Shop(p ShopPayload) (partner.Shop, error) {
	id := firstNonEmpty(p.ID, p.IDAlt)
	if id == "" {
		return partner.Shop{}, missingField("shop", "id")
	}
	if p.CompanyID == "" {
		return partner.Shop{}, missingField("shop", "companyId")
	}
	return partner.Shop{
		ID:        id,
		CompanyID: p.CompanyID,
		Name:      p.Name,
		Banner:    p.Banner,
		Theme:     p.Theme,
		About:     p.About,
		Published: p.Published,
	}, nil
}

// Shops maps a shop list, preserving input order.
func Shops(payloads []ShopPayload) ([]partner.Shop, error) {
	out := make([]partner.Shop, 0, len(payloads))
	for _, p := range payloads {
		mapped, err := Shop(p)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}
