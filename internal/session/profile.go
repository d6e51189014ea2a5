package session

// Known roles. A freshly signed-up user has no role until they pick one.
const (
	RoleConsumer = "consumer"
	RoleFarmer   = "farmer"
	RoleAdmin    = "admin"
)

// Profile is the authenticated user as the core API reports it.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Mobile string `json:"mobile,omitempty"`
}

// HasRole reports whether the user has picked a role yet.
func (p *Profile) HasRole() bool {
	return p != nil && p.Role != ""
}
