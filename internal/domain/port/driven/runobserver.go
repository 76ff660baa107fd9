package driven

import "github.com/ericfisherdev/spexpiry/internal/domain/model"

// RunObserver receives the report of every completed run.
type RunObserver interface {
	ObserveRun(report model.RunReport)
	ObserveDelivery(sink string, err error)
}
