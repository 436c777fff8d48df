package validation

import (
	"github.com/go-faster/errors"

	"wpsync/internal/logger"
	"wpsync/internal/worker/events"
)

var (
	ErrUnknownEvent  = errors.New("unknown event type")
	ErrInvalidOffset = errors.New("import offset must not be negative")
)

type Validator struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *Validator {
	return &Validator{
		logger: logger,
	}
}

// ValidateEvent rejects events the processor cannot act on.
func (v *Validator) ValidateEvent(event events.Event) error {
	v.logger.Debug("Validating event: %+v", event)

	switch event.Type {
	case events.EventSyncRequested:
		return nil
	case events.EventImportRequested:
		if event.Offset < 0 {
			return errors.Wrapf(ErrInvalidOffset, "offset %d", event.Offset)
		}
		return nil
	default:
		return errors.Wrapf(ErrUnknownEvent, "%q", event.Type)
	}
}
