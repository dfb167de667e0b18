package domain

// Role is a backend-issued role name.
type Role string

// Known roles.
const (
	RoleCustomer Role = "CUSTOMER"
	RoleCourier  Role = "COURIER"
	RoleAdmin    Role = "ADMIN"
)

// Session is the signed-in identity persisted under the session key.
// Roles is nil when the stored record carried no roles array.
type Session struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	UserID       string `json:"userId,omitempty"`
	Username     string `json:"username,omitempty"`
	Roles        []Role `json:"roles"`
}

// HasRole reports whether the session carries r.
func (s Session) HasRole(r Role) bool {
	for _, have := range s.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the session and allowed share at least one role.
func (s Session) HasAnyRole(allowed ...Role) bool {
	for _, r := range allowed {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

// DeliveryKey is the identifier deliveries are associated with, for both
// customers and couriers. The backend compares it with the token subject,
// which is the username.
func (s Session) DeliveryKey() string {
	return s.Username
}

// RoleNames returns the roles as plain strings.
func (s Session) RoleNames() []string {
	out := make([]string, 0, len(s.Roles))
	for _, r := range s.Roles {
		out = append(out, string(r))
	}
	return out
}
