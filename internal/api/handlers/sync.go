package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"wpsync/internal/logger"
	"wpsync/internal/models"
	"wpsync/internal/syncer"
	"wpsync/internal/worker/events"
)

// Publisher hands a sync trigger to whatever executes runs.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type RunReader interface {
	Recent(ctx context.Context, limit int) ([]models.SyncRun, error)
}

type SyncHandler struct {
	publisher Publisher
	runs      RunReader
	running   func() bool
	logger    *logger.Logger
}

// NewSyncHandler exposes sync triggers and run history. running reports
// whether this process is executing a run; it may be nil when runs
// happen elsewhere.
func NewSyncHandler(publisher Publisher, runs RunReader, running func() bool, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		publisher: publisher,
		runs:      runs,
		running:   running,
		logger:    logger,
	}
}

func (h *SyncHandler) Trigger(c *gin.Context) {
	h.publish(c, events.Event{Type: events.EventSyncRequested, RequestedBy: "api"})
}

func (h *SyncHandler) Import(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
		return
	}
	h.publish(c, events.Event{Type: events.EventImportRequested, Offset: offset, RequestedBy: "api"})
}

func (h *SyncHandler) publish(c *gin.Context, event events.Event) {
	if err := h.publisher.Publish(c.Request.Context(), event); err != nil {
		if errors.Is(err, syncer.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to publish %s: %v", event.Type, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue sync"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"data": event})
}

func (h *SyncHandler) Status(c *gin.Context) {
	runs, err := h.runs.Recent(c.Request.Context(), 1)
	if err != nil {
		h.logger.Error("Failed to fetch sync status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sync status"})
		return
	}

	status := gin.H{"running": h.running != nil && h.running()}
	if len(runs) > 0 {
		status["last_run"] = runs[0]
	} else {
		status["last_run"] = nil
	}

	c.JSON(http.StatusOK, gin.H{"data": status})
}

func (h *SyncHandler) Runs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	runs, err := h.runs.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list sync runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sync runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": runs})
}
