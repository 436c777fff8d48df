package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"wpsync/internal/database"
	"wpsync/internal/logger"
	"wpsync/internal/models"
)

type AttachmentReader interface {
	Get(ctx context.Context, id string) (*models.Attachment, error)
}

type AttachmentHandler struct {
	store  AttachmentReader
	url    func(file string) string
	logger *logger.Logger
}

// NewAttachmentHandler serves attachment records. url maps a stored file
// to its public address.
func NewAttachmentHandler(store AttachmentReader, url func(file string) string, logger *logger.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		store:  store,
		url:    url,
		logger: logger,
	}
}

func (h *AttachmentHandler) Get(c *gin.Context) {
	att, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
			return
		}
		h.logger.Error("Failed to fetch attachment %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attachment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": att,
		"url":  h.url(att.File),
	})
}
