package model

// ExpiringApplication pairs an application's identity with one of its
// credentials that is due for a warning on this run.
type ExpiringApplication struct {
	ID           string
	DisplayName  string
	KeyID        string
	KeyType      string
	DaysToExpire int
	EndDateTime  string // Verbatim from the directory.
}
