package syncer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"

	"wpsync/internal/logger"
	"wpsync/internal/models"
	"wpsync/internal/services/catalog"
)

// ErrRunInProgress is returned when a run is requested while another one
// has not finished.
var ErrRunInProgress = errors.New("a sync run is already in progress")

type RemoteCatalog interface {
	GetProducts(ctx context.Context) ([]catalog.RemoteProduct, error)
	GetPage(ctx context.Context, offset int) ([]catalog.RemoteProduct, error)
}

// BulkImporter loads a CSV shaped by WriteCSV without drafting anything.
type BulkImporter interface {
	Import(ctx context.Context, r io.Reader) (Report, error)
}

type RunRecorder interface {
	Create(ctx context.Context, run *models.SyncRun) error
	Save(ctx context.Context, run *models.SyncRun) error
}

type Options struct {
	// Threshold is the minimum feed size trusted for reconciliation.
	Threshold int
	// ImportLimit is the maximum page size accepted by Import.
	ImportLimit int
}

// Service runs scheduled syncs and the bootstrap import. Only one run of
// either kind executes at a time.
type Service struct {
	remote      RemoteCatalog
	reconciler  *Reconciler
	importer    BulkImporter
	runs        RunRecorder
	logger      *logger.Logger
	threshold   int
	importLimit int

	mu      sync.Mutex
	running atomic.Bool
	now     func() time.Time
}

func NewService(remote RemoteCatalog, reconciler *Reconciler, importer BulkImporter, runs RunRecorder, logger *logger.Logger, opts Options) *Service {
	return &Service{
		remote:      remote,
		reconciler:  reconciler,
		importer:    importer,
		runs:        runs,
		logger:      logger,
		threshold:   opts.Threshold,
		importLimit: opts.ImportLimit,
		now:         time.Now,
	}
}

func (s *Service) Running() bool {
	return s.running.Load()
}

// Run fetches the full export and reconciles the local catalog against it.
// Feeds smaller than the threshold are discarded without touching anything.
func (s *Service) Run(ctx context.Context) (*models.SyncRun, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()
	s.running.Store(true)
	defer s.running.Store(false)

	run := s.begin(ctx, models.SyncKindSync, 0)
	s.logger.Info("Starting catalog sync...")

	products, err := s.fetch(ctx, func(ctx context.Context) ([]catalog.RemoteProduct, error) {
		return s.remote.GetProducts(ctx)
	})
	if err != nil {
		s.logger.Error("API request error: %v", err)
		s.finish(ctx, run, models.SyncRunStatusFailed, err.Error())
		return run, err
	}
	run.Received = len(products)

	if len(products) == 0 || len(products) < s.threshold {
		msg := fmt.Sprintf("received %d products, below threshold of %d; catalog left untouched", len(products), s.threshold)
		s.logger.Warn("Discarding feed: %s", msg)
		s.finish(ctx, run, models.SyncRunStatusSkipped, msg)
		return run, nil
	}

	s.logger.Info("Received %d products.", len(products))
	report := s.reconciler.Reconcile(ctx, products)
	applyReport(run, report)
	s.finish(ctx, run, models.SyncRunStatusCompleted, "")

	s.logger.Info("Finished catalog sync: %d created, %d updated, %d drafted, %d skipped, %d failed",
		report.Created, report.Updated, report.Drafted, report.Skipped, report.Failed)
	return run, nil
}

// Import loads one page of the export through the bulk importer. It is the
// first-activation path: it never drafts products.
func (s *Service) Import(ctx context.Context, offset int) (*models.SyncRun, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()
	s.running.Store(true)
	defer s.running.Store(false)

	run := s.begin(ctx, models.SyncKindImport, offset)
	s.logger.Info("Starting product import at offset %d...", offset)

	products, err := s.fetch(ctx, func(ctx context.Context) ([]catalog.RemoteProduct, error) {
		return s.remote.GetPage(ctx, offset)
	})
	if err != nil {
		s.logger.Error("API request error: %v", err)
		s.finish(ctx, run, models.SyncRunStatusFailed, err.Error())
		return run, err
	}
	run.Received = len(products)

	if len(products) == 0 || len(products) > s.importLimit {
		msg := fmt.Sprintf("received %d products, import accepts 1 to %d", len(products), s.importLimit)
		s.logger.Warn("Skipping import: %s", msg)
		s.finish(ctx, run, models.SyncRunStatusSkipped, msg)
		return run, nil
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, products); err != nil {
		s.finish(ctx, run, models.SyncRunStatusFailed, err.Error())
		return run, err
	}

	report, err := s.importer.Import(ctx, &buf)
	applyReport(run, report)
	if err != nil {
		s.logger.Error("Bulk import failed: %v", err)
		s.finish(ctx, run, models.SyncRunStatusFailed, err.Error())
		return run, err
	}
	s.finish(ctx, run, models.SyncRunStatusCompleted, "")

	s.logger.Info("Finished product import: %d created, %d updated, %d skipped, %d failed",
		report.Created, report.Updated, report.Skipped, report.Failed)
	return run, nil
}

// fetch treats a malformed body as an empty feed.
func (s *Service) fetch(ctx context.Context, get func(context.Context) ([]catalog.RemoteProduct, error)) ([]catalog.RemoteProduct, error) {
	products, err := get(ctx)
	if errors.Is(err, catalog.ErrParse) {
		s.logger.Warn("Treating unreadable API response as empty: %v", err)
		return nil, nil
	}
	return products, err
}

func (s *Service) begin(ctx context.Context, kind models.SyncKind, offset int) *models.SyncRun {
	run := &models.SyncRun{
		Kind:      kind,
		Status:    models.SyncRunStatusRunning,
		Offset:    offset,
		StartedAt: s.now(),
	}
	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			s.logger.Error("Failed to record sync run: %v", err)
		}
	}
	return run
}

func (s *Service) finish(ctx context.Context, run *models.SyncRun, status models.SyncRunStatus, msg string) {
	completed := s.now()
	run.Status = status
	run.Message = msg
	run.CompletedAt = &completed
	if s.runs != nil {
		if err := s.runs.Save(ctx, run); err != nil {
			s.logger.Error("Failed to record sync run %s: %v", run.ID, err)
		}
	}
}

func applyReport(run *models.SyncRun, report Report) {
	run.Created = report.Created
	run.Updated = report.Updated
	run.Drafted = report.Drafted
	run.Skipped = report.Skipped
	run.Failed = report.Failed
}
