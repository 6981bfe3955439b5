package mapping

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureProduct builds a well-formed payload from a seeded faker, so
// fixtures are deterministic across runs.
func fixtureProduct(t *testing.T) ProductPayload {
	t.Helper()
	faker := gofakeit.New(42)
	return ProductPayload{
		ID:          faker.UUID(),
		Name:        faker.ProductName(),
		Description: faker.Sentence(8),
		Images:      []string{faker.URL()},
		Colors:      []string{"Red", "Blue"},
		Price:       decimal.NewFromInt(849),
		Category:    &RefPayload{ID: faker.UUID(), Name: "Chairs"},
		Company:     &RefPayload{ID: faker.UUID(), Name: faker.Company()},
	}
}

func TestProduct_WellFormedPayload(t *testing.T) {
	payload := fixtureProduct(t)

	product, err := Product(payload)
	require.NoError(t, err)

	assert.True(t, product.Price.Equal(decimal.NewFromInt(849)))
	assert.True(t, product.Discount.IsZero())
	// Interactions must always be present with defaults, never synthesized.
	assert.Equal(t, 0, product.Interactions.Likes)
	assert.Equal(t, 0, product.Interactions.Shares)
	assert.False(t, product.Interactions.Liked)
	assert.NotNil(t, product.Interactions.Comments)
	assert.Nil(t, product.Preferences)
}

func TestProduct_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ProductPayload)
		wantField string
	}{
		{name: "missing id", mutate: func(p *ProductPayload) { p.ID, p.IDAlt = "", "" }, wantField: "id"},
		{name: "missing name", mutate: func(p *ProductPayload) { p.Name = "" }, wantField: "name"},
		{name: "missing category", mutate: func(p *ProductPayload) { p.Category = nil }, wantField: "category"},
		{name: "missing company", mutate: func(p *ProductPayload) { p.Company = nil }, wantField: "company"},
		{name: "empty company id", mutate: func(p *ProductPayload) { p.Company = &RefPayload{Name: "x"} }, wantField: "company"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := fixtureProduct(t)
			tt.mutate(&payload)

			_, err := Product(payload)
			require.Error(t, err)

			var mapErr *MappingError
			require.ErrorAs(t, err, &mapErr)
			assert.Equal(t, tt.wantField, mapErr.Field)
		})
	}
}

func TestProduct_LegacyIDAndImageFallbacks(t *testing.T) {
	payload := fixtureProduct(t)
	payload.IDAlt = payload.ID
	payload.ID = ""
	payload.Images = nil
	payload.ImageURLs = []string{"https://cdn.example.com/legacy.jpg"}

	product, err := Product(payload)
	require.NoError(t, err)
	assert.Equal(t, payload.IDAlt, product.ID)
	assert.Equal(t, []string{"https://cdn.example.com/legacy.jpg"}, product.Images)
}

func TestProduct_OptionalDefaultsFromResponse(t *testing.T) {
	likes, shares, liked := 7, 3, true
	payload := fixtureProduct(t)
	payload.Likes = &likes
	payload.Shares = &shares
	payload.Liked = &liked
	payload.Preferences = &PreferencesPayload{Colors: []string{"Red"}, Quantity: 2}

	product, err := Product(payload)
	require.NoError(t, err)
	assert.Equal(t, 7, product.Interactions.Likes)
	assert.Equal(t, 3, product.Interactions.Shares)
	assert.True(t, product.Interactions.Liked)
	require.NotNil(t, product.Preferences)
	assert.Equal(t, 2, product.Preferences.Quantity)
}

func TestProduct_Idempotent(t *testing.T) {
	payload := fixtureProduct(t)

	first, err := Product(payload)
	require.NoError(t, err)
	second, err := Product(payload)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProducts_PreservesOrder(t *testing.T) {
	a := fixtureProduct(t)
	a.ID, a.Name = "P-b", "bravo"
	b := fixtureProduct(t)
	b.ID, b.Name = "P-a", "alpha"

	products, err := Products([]ProductPayload{a, b})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "P-b", products[0].ID, "mapper must never re-sort")
	assert.Equal(t, "P-a", products[1].ID)
}

func TestSellerProduct(t *testing.T) {
	payload := SellerProductPayload{
		ProductPayload: fixtureProduct(t),
		Status:         "pending",
		ViewCount:      120,
		SoldCount:      8,
		Features:       map[string]string{"Material": "Oak"},
	}

	sp, err := SellerProduct(payload)
	require.NoError(t, err)
	assert.Equal(t, 120, sp.ViewCount)
	assert.Equal(t, "Oak", sp.Features["Material"])

	payload.Status = "weird"
	_, err = SellerProduct(payload)
	var mapErr *MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, "status", mapErr.Field)
}
