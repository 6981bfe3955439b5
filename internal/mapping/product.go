package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/shopsphere/client/internal/domain/catalog"
)

// RefPayload is an id+display back-reference as the backend sends it. Older
// endpoints emit "id", newer ones "_id".
type RefPayload struct {
	ID    string `json:"_id"`
	IDAlt string `json:"id"`
	Name  string `json:"name"`
	Logo  string `json:"logo"`
}

func (r *RefPayload) id() string {
	return firstNonEmpty(r.ID, r.IDAlt)
}

// CommentPayload is one wire comment.
type CommentPayload struct {
	ID        string `json:"_id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// PreferencesPayload is the optional per-user preference aggregate.
type PreferencesPayload struct {
	Colors   []string `json:"colors"`
	Quantity int      `json:"quantity"`
}

// ProductPayload is the public listing/detail shape. Social counters and the
// liked flag are optional on the wire; category and company references are
// required by the internal model.
//
// Legacy fallback chain (documented, not inferred): Images falls back to the
// pre-CDN ImageURLs field when empty. No other product field has a fallback.
type ProductPayload struct {
	ID          string          `json:"_id"`
	IDAlt       string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	ImageURLs   []string        `json:"imageUrls"`
	Colors      []string        `json:"colors"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	DiscountOn  string          `json:"discountStart"`
	DiscountOff string          `json:"discountEnd"`

	Category *RefPayload `json:"category"`
	Company  *RefPayload `json:"company"`

	Likes       *int                `json:"likes"`
	Shares      *int                `json:"shares"`
	Liked       *bool               `json:"liked"`
	Comments    []CommentPayload    `json:"comments"`
	Preferences *PreferencesPayload `json:"userPreferences"`
}

// SellerProductPayload is the seller-privileged detail shape. It carries
// everything the public shape does plus moderation state, counters, and the
// free-form feature table.
type SellerProductPayload struct {
	ProductPayload

	Status    string            `json:"status"`
	ViewCount int               `json:"viewCount"`
	SoldCount int               `json:"soldCount"`
	Features  map[string]string `json:"features"`
}

// Product maps a public product payload to the canonical Product.
func Product(p ProductPayload) (catalog.Product, error) {
	id := firstNonEmpty(p.ID, p.IDAlt)
	if id == "" {
		return catalog.Product{}, missingField("product", "id")
	}
	if p.Name == "" {
		return catalog.Product{}, missingField("product", "name")
	}
	if p.Category == nil || p.Category.id() == "" {
		return catalog.Product{}, missingField("product", "category")
	}
	if p.Company == nil || p.Company.id() == "" {
		return catalog.Product{}, missingField("product", "company")
	}

	images := p.Images
	if len(images) == 0 {
		images = p.ImageURLs
	}

	return catalog.Product{
		ID:           id,
		Name:         p.Name,
		Description:  p.Description,
		Images:       images,
		Colors:       p.Colors,
		Price:        p.Price,
		Discount:     p.Discount,
		DiscountFrom: parseWireTime(p.DiscountOn),
		DiscountTo:   parseWireTime(p.DiscountOff),
		Category: catalog.CategoryRef{
			ID:   p.Category.id(),
			Name: p.Category.Name,
		},
		Company: catalog.CompanyRef{
			ID:   p.Company.id(),
			Name: p.Company.Name,
			Logo: p.Company.Logo,
		},
		Interactions: interactions(&p),
		Preferences:  preferences(p.Preferences),
	}, nil
}

// Products maps a product list, preserving input order. The first malformed
// element fails the whole list.
func Products(payloads []ProductPayload) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(payloads))
	for _, p := range payloads {
		mapped, err := Product(p)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

// SellerProduct maps the seller-privileged shape. The moderation status is
// required there; the counters and feature table default to empty.
func SellerProduct(p SellerProductPayload) (catalog.SellerProduct, error) {
	base, err := Product(p.ProductPayload)
	if err != nil {
		return catalog.SellerProduct{}, err
	}

	status := catalog.ModerationStatus(p.Status)
	if !status.IsValid() {
		return catalog.SellerProduct{}, missingField("sellerProduct", "status")
	}

	features := p.Features
	if features == nil {
		features = make(map[string]string)
	}

	return catalog.SellerProduct{
		Product:   base,
		Status:    status,
		ViewCount: p.ViewCount,
		SoldCount: p.SoldCount,
		Features:  features,
	}, nil
}

// SellerProducts maps a seller product list, preserving input order.
func SellerProducts(payloads []SellerProductPayload) ([]catalog.SellerProduct, error) {
	out := make([]catalog.SellerProduct, 0, len(payloads))
	for _, p := range payloads {
		mapped, err := SellerProduct(p)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

// interactions builds the always-present Interactions aggregate. Absent
// counters default to 0, an absent liked flag to false, and an absent comment
// list to empty. These values come from the response alone; the mapper never
// synthesizes counts.
func interactions(p *ProductPayload) catalog.Interactions {
	comments := make([]catalog.Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, catalog.Comment{
			ID:        c.ID,
			UserID:    c.UserID,
			UserName:  c.UserName,
			Text:      c.Text,
			CreatedAt: parseWireTime(c.CreatedAt),
		})
	}
	return catalog.Interactions{
		Likes:    intOrZero(p.Likes),
		Shares:   intOrZero(p.Shares),
		Comments: comments,
		Liked:    boolOrFalse(p.Liked),
	}
}

func preferences(p *PreferencesPayload) *catalog.UserPreferences {
	if p == nil {
		return nil
	}
	return &catalog.UserPreferences{
		Colors:   p.Colors,
		Quantity: p.Quantity,
	}
}
