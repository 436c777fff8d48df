package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/robfig/cron/v3"
	"github.com/segmentio/kafka-go"

	"wpsync/internal/config"
	"wpsync/internal/logger"
	"wpsync/internal/models"
	"wpsync/internal/syncer"
	"wpsync/internal/worker/events"
	"wpsync/internal/worker/processors"
)

// RunCounter reports how many runs have been recorded.
type RunCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Worker drives the sync service from the cron schedule and, when brokers
// are configured, from catalog-sync events.
type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	reader    *kafka.Reader
	scheduler *cron.Cron
	processor *processors.EventProcessor
	runs      RunCounter
	ctx       context.Context
}

func New(cfg *config.Config, logger *logger.Logger, runner processors.Runner, runs RunCounter) (*Worker, error) {
	w := &Worker{
		config:    cfg,
		logger:    logger,
		processor: processors.NewEventProcessor(runner, logger),
		runs:      runs,
		ctx:       context.Background(),
	}

	w.scheduler = cron.New(cron.WithLogger(cronLogger{logger}))
	if _, err := w.scheduler.AddFunc(cfg.SyncSchedule, w.scheduledSync); err != nil {
		return nil, errors.Wrapf(err, "invalid sync schedule %q", cfg.SyncSchedule)
	}

	if brokers := events.Brokers(cfg.KafkaBrokers); len(brokers) > 0 {
		w.reader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			GroupID:        "wpsync-worker",
			Topic:          cfg.KafkaTopic,
			MinBytes:       1,
			MaxBytes:       10e6, // 10MB
			CommitInterval: time.Second,
		})
	}

	return w, nil
}

// Start runs until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.ctx = ctx

	if w.config.BootstrapOnStart {
		w.Bootstrap(ctx)
	}

	w.scheduler.Start()
	w.logger.Info("Scheduled catalog sync: %s", w.config.SyncSchedule)

	if w.reader == nil {
		w.logger.Info("No Kafka brokers configured, running on schedule only")
		<-ctx.Done()
		return
	}

	w.logger.Info("Worker started, listening for events on %s...", w.config.KafkaTopic)
	for {
		message, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		event, err := events.Decode(message.Value)
		if err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		w.handle(ctx, event)
	}
}

// Bootstrap imports the first page of the catalog when no run has ever
// been recorded.
func (w *Worker) Bootstrap(ctx context.Context) {
	count, err := w.runs.Count(ctx)
	if err != nil {
		w.logger.Error("Failed to check sync history: %v", err)
		return
	}
	if count > 0 {
		return
	}

	w.logger.Info("First activation, importing catalog...")
	w.handle(ctx, events.Event{Type: events.EventImportRequested, RequestedBy: "bootstrap"})
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	<-w.scheduler.Stop().Done()
	if w.reader != nil {
		w.reader.Close()
	}
}

func (w *Worker) scheduledSync() {
	w.handle(w.ctx, events.Event{Type: events.EventSyncRequested, RequestedBy: "schedule"})
}

func (w *Worker) handle(ctx context.Context, event events.Event) {
	run, err := w.processor.Process(ctx, event)
	logOutcome(w.logger, event, run, err)
}

func logOutcome(logger *logger.Logger, event events.Event, run *models.SyncRun, err error) {
	switch {
	case errors.Is(err, syncer.ErrRunInProgress):
		logger.Warn("Ignoring %s: a run is already in progress", event.Type)
	case err != nil:
		logger.Error("Failed to process event %s: %v", event.Type, err)
	case run != nil:
		logger.Debug("Event %s finished with run %s (%s)", event.Type, run.ID, run.Status)
	}
}

type cronLogger struct {
	logger *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: %s: %v %s", msg, err, fmt.Sprint(keysAndValues...))
}
