package driven

import "context"

// TokenProvider returns a bearer token for the directory API.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
