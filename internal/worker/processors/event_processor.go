package processors

import (
	"context"

	"wpsync/internal/logger"
	"wpsync/internal/models"
	"wpsync/internal/worker/events"
	"wpsync/internal/worker/processors/validation"
)

// Runner executes sync and import runs.
type Runner interface {
	Run(ctx context.Context) (*models.SyncRun, error)
	Import(ctx context.Context, offset int) (*models.SyncRun, error)
}

type EventProcessor struct {
	runner    Runner
	logger    *logger.Logger
	validator *validation.Validator
}

func NewEventProcessor(runner Runner, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		runner:    runner,
		logger:    logger,
		validator: validation.New(logger),
	}
}

// Process validates an event and starts the run it asks for. The returned
// run is nil when the event was rejected or another run holds the lock.
func (ep *EventProcessor) Process(ctx context.Context, event events.Event) (*models.SyncRun, error) {
	if err := ep.validator.ValidateEvent(event); err != nil {
		return nil, err
	}

	ep.logger.Debug("Processing event: %+v", event)

	switch event.Type {
	case events.EventImportRequested:
		return ep.runner.Import(ctx, event.Offset)
	default:
		return ep.runner.Run(ctx)
	}
}
