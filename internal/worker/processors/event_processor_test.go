package processors

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpsync/internal/logger"
	"wpsync/internal/models"
	"wpsync/internal/worker/events"
	"wpsync/internal/worker/processors/validation"
)

type fakeRunner struct {
	runs    int
	imports []int
}

func (f *fakeRunner) Run(context.Context) (*models.SyncRun, error) {
	f.runs++
	return &models.SyncRun{Kind: models.SyncKindSync}, nil
}

func (f *fakeRunner) Import(_ context.Context, offset int) (*models.SyncRun, error) {
	f.imports = append(f.imports, offset)
	return &models.SyncRun{Kind: models.SyncKindImport, Offset: offset}, nil
}

func TestProcessDispatchesByType(t *testing.T) {
	runner := &fakeRunner{}
	ep := NewEventProcessor(runner, logger.Discard())
	ctx := context.Background()

	run, err := ep.Process(ctx, events.Event{Type: events.EventSyncRequested})
	require.NoError(t, err)
	assert.Equal(t, models.SyncKindSync, run.Kind)

	run, err = ep.Process(ctx, events.Event{Type: events.EventImportRequested, Offset: 2000})
	require.NoError(t, err)
	assert.Equal(t, 2000, run.Offset)

	assert.Equal(t, 1, runner.runs)
	assert.Equal(t, []int{2000}, runner.imports)
}

func TestProcessRejectsInvalidEvents(t *testing.T) {
	runner := &fakeRunner{}
	ep := NewEventProcessor(runner, logger.Discard())

	_, err := ep.Process(context.Background(), events.Event{Type: "product.deleted"})
	assert.True(t, errors.Is(err, validation.ErrUnknownEvent))

	_, err = ep.Process(context.Background(), events.Event{Type: events.EventImportRequested, Offset: -1})
	assert.True(t, errors.Is(err, validation.ErrInvalidOffset))

	assert.Zero(t, runner.runs)
	assert.Empty(t, runner.imports)
}
