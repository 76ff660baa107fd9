package driven

import (
	"context"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
)

// DirectoryClient defines the driven port for reading registered applications
// and their credentials from the identity directory.
type DirectoryClient interface {
	// FetchApplications returns every application visible to the service
	// identity. Any failure, including token acquisition, is returned as an
	// error and no partial result is returned alongside it.
	FetchApplications(ctx context.Context) ([]model.Application, error)
}
