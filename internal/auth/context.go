package auth

import "github.com/stwalsh4118/ciftlik/internal/models"

// Context is the authenticated caller of a request. Handlers pass it to
// services that enforce who may perform an action.
type Context interface {
	UserID() string
	Role() string
	IsAdmin() bool
}

// Principal is the Context of a logged-in user.
type Principal struct {
	id    string
	email string
	name  string
	role  string
}

// NewPrincipal builds the Context of a user.
func NewPrincipal(user *models.User) *Principal {
	return &Principal{id: user.ID, email: user.Email, name: user.Name, role: user.Role}
}

func (p *Principal) UserID() string { return p.id }
func (p *Principal) Role() string   { return p.role }
func (p *Principal) Email() string  { return p.email }
func (p *Principal) Name() string   { return p.name }

// IsAdmin reports whether the user may act on behalf of any owner.
func (p *Principal) IsAdmin() bool { return p.role == models.RoleAdmin }
