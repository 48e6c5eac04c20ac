package domain

import "time"

// Application is a registered client of the SSO service. The client secret is
// stored hashed; the raw secret is returned exactly once at creation.
type Application struct {
	ID               string // ULID
	Name             string // unique, lowercase-dash slug
	BaseURL          string
	ClientSecretHash string
	CreatedAt        time.Time
}
