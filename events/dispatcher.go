package events

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LogDispatcher writes events to the log. Used when no brokers are configured.
type LogDispatcher struct{}

var _ Dispatcher = LogDispatcher{}

func (LogDispatcher) Dispatch(_ context.Context, event Event) error {
	log.WithFields(log.Fields{
		"event":       event.Type(),
		"aggregate":   event.Aggregate(),
		"aggregateId": event.AggregateID(),
	}).Infof("📣 Dispatch: %s", event.Type())
	return nil
}

// Publish dispatches events in order. Failures are logged and never returned:
// the state change they describe is already committed.
func Publish(ctx context.Context, d Dispatcher, evts ...Event) {
	if d == nil {
		return
	}
	for _, event := range evts {
		if err := d.Dispatch(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"event":       event.Type(),
				"aggregateId": event.AggregateID(),
			}).Errorf("❌ Publish: Error dispatching event: %v", err)
		}
	}
}
