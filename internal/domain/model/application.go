package model

// Application is a registered application read from the identity directory.
// Only the fields requested by the directory query projection are populated.
type Application struct {
	ID                  string
	DisplayName         string
	KeyCredentials      []Credential
	PasswordCredentials []Credential
}

// HasCredentials reports whether the application holds at least one key or
// password credential.
func (a Application) HasCredentials() bool {
	return len(a.KeyCredentials) > 0 || len(a.PasswordCredentials) > 0
}

// Credentials returns key credentials followed by password credentials, in
// the order the directory returned them.
func (a Application) Credentials() []Credential {
	all := make([]Credential, 0, len(a.KeyCredentials)+len(a.PasswordCredentials))
	all = append(all, a.KeyCredentials...)
	all = append(all, a.PasswordCredentials...)
	return all
}
