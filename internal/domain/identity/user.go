package identity

// Role is a non-exclusive capability tag on a user. A user may hold several
// roles at once.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// CompanyNone is the sentinel company id for users with no company
// affiliation.
const CompanyNone = "none"

// AuthUser is the canonical authenticated user record.
type AuthUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Roles     []Role `json:"roles"`
	CompanyID string `json:"companyId"`
}

// HasRole reports whether the user carries the given role.
func (u *AuthUser) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user carries the admin role.
func (u *AuthUser) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// Session pairs the bearer token with its user record. The two are always
// persisted and cleared together; no caller may ever observe one without the
// other.
type Session struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}
