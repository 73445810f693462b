package model

// Actor is the authenticated caller identity attached by the auth middleware.
// It is passed explicitly into every service operation rather than carried in
// ambient request state.
type Actor struct {
	ID   string
	Role string
}

// IsAdmin reports whether the actor may operate on resources it does not own.
func (a Actor) IsAdmin() bool {
	return a.Role == "admin" || a.Role == "super-admin"
}
