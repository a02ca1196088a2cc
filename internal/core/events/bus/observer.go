package bus

import "github.com/zeusync/arpg/internal/core/observability/log"

// LogObserver traces every publish at debug level and reports failed
// deliveries as warnings.
type LogObserver struct {
	logger log.Log
}

func NewLogObserver(logger log.Log) *LogObserver {
	return &LogObserver{logger: log.OrNop(logger).With(log.String("component", "bus"))}
}

func (o *LogObserver) OnPublish(eventType string, event Event) {
	o.logger.Debug("event published",
		log.String("type", eventType),
		log.String("source", event.Source()),
		log.Uint64("frame", event.Frame()),
	)
}

func (o *LogObserver) OnDelivered(eventType string, handlers int, err error) {
	if err != nil {
		o.logger.Warn("event handler failed",
			log.String("type", eventType),
			log.Int("handlers", handlers),
			log.Error(err),
		)
	}
}
