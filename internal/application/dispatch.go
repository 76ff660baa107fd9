package application

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
	"github.com/ericfisherdev/spexpiry/internal/domain/port/driven"
)

// defaultConcurrency bounds in-flight deliveries when none is configured.
const defaultConcurrency = 4

// Dispatcher fans expiration records out to every configured notifier. Each
// (record, sink) delivery is attempted exactly once and independently of the
// others: a failure is logged and counted, never returned.
type Dispatcher struct {
	notifiers   []driven.Notifier
	concurrency int
	observer    driven.RunObserver
}

// NewDispatcher creates a Dispatcher. concurrency <= 0 selects the default.
// observer may be nil.
func NewDispatcher(notifiers []driven.Notifier, concurrency int, observer driven.RunObserver) *Dispatcher {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Dispatcher{
		notifiers:   notifiers,
		concurrency: concurrency,
		observer:    observer,
	}
}

// Dispatch delivers every record to every notifier and returns how many
// deliveries succeeded and failed. Deliveries are started in record order but
// may complete in any order.
func (d *Dispatcher) Dispatch(ctx context.Context, expiring []model.ExpiringApplication) (delivered, failed int) {
	var ok, bad atomic.Int64

	var g errgroup.Group
	g.SetLimit(d.concurrency)

	for _, exp := range expiring {
		for _, n := range d.notifiers {
			g.Go(func() error {
				err := n.Notify(ctx, exp)
				if d.observer != nil {
					d.observer.ObserveDelivery(n.Name(), err)
				}

				if err != nil {
					bad.Add(1)
					slog.Error("notification delivery failed",
						"sink", n.Name(),
						"app_id", exp.ID,
						"key_id", exp.KeyID,
						"error", err,
					)
					return nil
				}

				ok.Add(1)
				slog.Info("notification delivered",
					"sink", n.Name(),
					"app", exp.DisplayName,
					"key_id", exp.KeyID,
					"days_to_expire", exp.DaysToExpire,
				)
				return nil
			})
		}
	}

	// Goroutines never return an error; Wait only joins them.
	_ = g.Wait()

	return int(ok.Load()), int(bad.Load())
}
