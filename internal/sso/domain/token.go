package domain

import "time"

// TokenKind distinguishes the two token families that share the tokens table.
// Values match the token_type column.
type TokenKind string

const (
	KindSession      TokenKind = "Session"
	KindRegistration TokenKind = "Registration"
)

// Token is an opaque credential row. Session tokens prove a completed login;
// registration tokens gate self-signup and are bound to a single email.
type Token struct {
	Value      string // random alphanumeric, unique across both kinds
	UserEmail  string // not enforced to reference an existing user at write time
	Expiration *time.Time
	Kind       TokenKind
	CreatedAt  time.Time
}

// Valid reports whether the token is usable at the given instant. A token
// with no expiration has been consumed or revoked and is never valid.
func (t Token) Valid(now time.Time) bool {
	return t.Expiration != nil && now.Before(*t.Expiration)
}

// Consumed reports whether the expiration has been cleared.
func (t Token) Consumed() bool {
	return t.Expiration == nil
}
