package driven

import (
	"context"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
)

// Notifier delivers one expiration warning to an external sink. Each call is a
// single attempt.
type Notifier interface {
	// Name identifies the sink in logs and metrics ("teams", "github").
	Name() string
	Notify(ctx context.Context, exp model.ExpiringApplication) error
}
