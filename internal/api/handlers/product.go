package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"wpsync/internal/database"
	"wpsync/internal/logger"
	"wpsync/internal/models"
)

type ProductReader interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error)
	Get(ctx context.Context, id string) (*models.Product, error)
}

type ProductHandler struct {
	store  ProductReader
	logger *logger.Logger
}

func NewProductHandler(store ProductReader, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		store:  store,
		logger: logger,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	// Filters
	status := models.ProductStatus(c.Query("status"))
	if status != "" && status != models.ProductStatusDraft && status != models.ProductStatusPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be draft or published"})
		return
	}

	products, total, err := h.store.List(c.Request.Context(), models.ProductFilter{
		Status: status,
		Search: c.Query("search"),
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		h.logger.Error("Failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": products,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.logger.Error("Failed to fetch product %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}
