// Package identity resolves who a request belongs to. Authenticated shoppers
// carry a Firebase ID token; everyone else is tracked by a session id.
package identity

import "context"

// Scope key prefixes. A cart scope is either "anon:<session id>" or
// "user:<uid>".
const (
	AnonPrefix = "anon:"
	UserPrefix = "user:"
)

// AnonScopeKey builds the cart scope key for an anonymous session.
func AnonScopeKey(sessionID string) string {
	return AnonPrefix + sessionID
}

// UserScopeKey builds the cart scope key for an authenticated shopper.
func UserScopeKey(uid string) string {
	return UserPrefix + uid
}

// Identity describes an authenticated shopper.
type Identity struct {
	UID   string
	Email string
	Admin bool
}

// ScopeKey returns the cart scope key for this identity.
func (id Identity) ScopeKey() string {
	return UserScopeKey(id.UID)
}

// Verifier validates a bearer token and returns the identity it asserts.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
