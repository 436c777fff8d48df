package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"wpsync/internal/logger"
	"wpsync/internal/syncer"
	"wpsync/internal/worker/events"
	"wpsync/internal/worker/processors"
)

// Inline executes triggers in the background of the current process. It is
// used by the API when no Kafka brokers are configured.
type Inline struct {
	processor *processors.EventProcessor
	running   func() bool
	logger    *logger.Logger
	wg        sync.WaitGroup

	// pending is set from Publish until the started run returns, covering
	// the gap before the service takes its own lock.
	pending atomic.Bool
}

func NewInline(runner processors.Runner, running func() bool, logger *logger.Logger) *Inline {
	return &Inline{
		processor: processors.NewEventProcessor(runner, logger),
		running:   running,
		logger:    logger,
	}
}

// Publish starts the run in a goroutine and returns immediately. It fails
// fast with syncer.ErrRunInProgress when a run is already executing.
func (i *Inline) Publish(_ context.Context, event events.Event) error {
	if i.running != nil && i.running() {
		return syncer.ErrRunInProgress
	}
	if !i.pending.CompareAndSwap(false, true) {
		return syncer.ErrRunInProgress
	}

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		defer i.pending.Store(false)
		run, err := i.processor.Process(context.Background(), event)
		logOutcome(i.logger, event, run, err)
	}()
	return nil
}

// Wait blocks until every started run has returned.
func (i *Inline) Wait() {
	i.wg.Wait()
}
