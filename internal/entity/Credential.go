package entity

import "time"

// Credential is the bearer token of the secondary API.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether the credential is present and not expired at now.
func (c Credential) Valid(now time.Time) bool {
	return c.Token != "" && now.Before(c.ExpiresAt)
}

type CredentialStatus struct {
	Valid     bool       `json:"valid"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}
