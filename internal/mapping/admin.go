package mapping

import (
	"github.com/shopsphere/client/internal/domain/identity"
	"github.com/shopsphere/client/internal/domain/partner"
)

// UserPayload is a user record on the wire. Two naming conventions coexist
// historically (camelCase from the current backend, snake_case from the one
// it replaced); both are tolerated, camelCase winning when both are present.
type UserPayload struct {
	ID        string `json:"_id"`
	IDAlt     string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	FirstSnk  string `json:"first_name"`
	LastName  string `json:"lastName"`
	LastSnk   string `json:"last_name"`
	Roles     []string `json:"roles"`
	CompanyID string `json:"companyId"`
	CompSnk   string `json:"company_id"`
}

// CompanyPayload is a company record on the wire.
type CompanyPayload struct {
	ID          string `json:"_id"`
	IDAlt       string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	OwnerID     string `json:"ownerId"`
	CreatedAt   string `json:"createdAt"`
}

// AuthUser maps a wire user to the canonical AuthUser. Roles default to
// buyer-only and company to the "none" sentinel when absent; unknown role
// strings are dropped rather than carried into the canonical set.
func AuthUser(p UserPayload) (identity.AuthUser, error) {
	id := firstNonEmpty(p.ID, p.IDAlt)
	if id == "" {
		return identity.AuthUser{}, missingField("user", "id")
	}
	if p.Email == "" {
		return identity.AuthUser{}, missingField("user", "email")
	}

	roles := make([]identity.Role, 0, len(p.Roles))
	for _, r := range p.Roles {
		role := identity.Role(r)
		if role.IsValid() {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		roles = []identity.Role{identity.RoleBuyer}
	}

	companyID := firstNonEmpty(p.CompanyID, p.CompSnk)
	if companyID == "" {
		companyID = identity.CompanyNone
	}

	return identity.AuthUser{
		ID:        id,
		Email:     p.Email,
		FirstName: firstNonEmpty(p.FirstName, p.FirstSnk),
		LastName:  firstNonEmpty(p.LastName, p.LastSnk),
		Roles:     roles,
		CompanyID: companyID,
	}, nil
}

// AuthUsers maps a user list, preserving input order.
func AuthUsers(payloads []UserPayload) ([]identity.AuthUser, error) {
	out := make([]identity.AuthUser, 0, len(payloads))
	for _, p := range payloads {
		mapped, err := AuthUser(p)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

// Company maps a wire company.
func Company(p CompanyPayload) (partner.Company, error) {
	id := firstNonEmpty(p.ID, p.IDAlt)
	if id == "" {
		return partner.Company{}, missingField("company", "id")
	}
	if p.Name == "" {
		return partner.Company{}, missingField("company", "name")
	}
	return partner.Company{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Logo:        p.Logo,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
		OwnerID:     p.OwnerID,
		CreatedAt:   parseWireTime(p.CreatedAt),
	}, nil
}

// Companies maps a company list, preserving input order.
func Companies(payloads []CompanyPayload) ([]partner.Company, error) {
	out := make([]partner.Company, 0, len(payloads))
	for _, p := range payloads {
		mapped, err := Company(p)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}
