package model

import "time"

// DefaultCredentialType labels credentials that carry no explicit type. The
// directory omits the type field on password credentials (client secrets).
const DefaultCredentialType = "Password"

// Credential is a key or password attached to an Application. EndDateTime and
// StartDateTime keep the ISO-8601 strings exactly as the directory returned
// them; ExpiresAt is the parsed form of EndDateTime and is nil when the
// directory sent no end date.
type Credential struct {
	KeyID         string
	DisplayName   string
	Type          string // "AsymmetricX509Cert", "Symmetric", ... Empty for passwords.
	Usage         string
	Hint          string
	StartDateTime string
	EndDateTime   string
	ExpiresAt     *time.Time
}

// TypeOrDefault returns the credential type, or DefaultCredentialType when the
// directory did not tag one.
func (c Credential) TypeOrDefault() string {
	if c.Type == "" {
		return DefaultCredentialType
	}
	return c.Type
}
