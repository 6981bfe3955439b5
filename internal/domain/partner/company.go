package partner

import "time"

// Company is a canonical selling company.
type Company struct {
	ID          string
	Name        string
	Description string
	Logo        string
	Email       string
	Phone       string
	Address     string
	OwnerID     string
	CreatedAt   time.Time
}

// Shop is a company's public storefront: the company reference plus the
// display configuration the shop page renders from.
type Shop struct {
	ID        string
	CompanyID string
	Name      string
	Banner    string
	Theme     string
	About     string
	Published bool
}
