package syncer

import (
	"context"

	"wpsync/internal/logger"
	"wpsync/internal/models"
	"wpsync/internal/services/catalog"
)

// ProductStore is the local catalog the reconciler writes to.
type ProductStore interface {
	ListIDs(ctx context.Context, filter models.ProductFilter) ([]string, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (string, bool, error)
	Save(ctx context.Context, p *models.Product) error
}

// Report counts what one reconciliation did.
type Report struct {
	Received int `json:"received"`
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Drafted  int `json:"drafted"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Reconciler makes the local catalog match a remote product list.
type Reconciler struct {
	store       ProductStore
	transformer *catalog.Transformer
	logger      *logger.Logger
}

func NewReconciler(store ProductStore, transformer *catalog.Transformer, logger *logger.Logger) *Reconciler {
	return &Reconciler{
		store:       store,
		transformer: transformer,
		logger:      logger,
	}
}

// Reconcile drafts every local product missing from remote, then creates or
// updates one product per remote record. A SKU repeated in remote ends with
// the values of its last occurrence. Per-product failures are logged and
// counted; they never stop the run.
func (r *Reconciler) Reconcile(ctx context.Context, remote []catalog.RemoteProduct) Report {
	report := Report{Received: len(remote)}

	received := make(map[string]struct{}, len(remote))
	for _, p := range remote {
		if p.SKU != "" {
			received[p.SKU] = struct{}{}
		}
	}

	r.deactivateMissing(ctx, received, &report)

	r.logger.Info("Updating products...")
	for _, item := range remote {
		if item.SKU == "" {
			report.Skipped++
			continue
		}
		r.upsert(ctx, item, &report)
	}

	return report
}

func (r *Reconciler) deactivateMissing(ctx context.Context, received map[string]struct{}, report *Report) {
	ids, err := r.store.ListIDs(ctx, models.ProductFilter{})
	if err != nil {
		r.logger.Error("Failed to list local products, skipping deactivation: %v", err)
		report.Failed++
		return
	}

	for _, id := range ids {
		product, err := r.store.Get(ctx, id)
		if err != nil {
			r.logger.Error("Failed to load product %s: %v", id, err)
			report.Failed++
			continue
		}
		if _, ok := received[product.SKU]; ok {
			continue
		}

		r.logger.Debug("Drafting product with SKU %s and ID %s", product.SKU, id)
		wasDraft := product.Status == models.ProductStatusDraft
		product.Status = models.ProductStatusDraft
		if err := r.store.Save(ctx, product); err != nil {
			r.logger.Error("Failed to draft product %s: %v", id, err)
			report.Failed++
			continue
		}
		if !wasDraft {
			report.Drafted++
		}
	}
}

func (r *Reconciler) upsert(ctx context.Context, item catalog.RemoteProduct, report *Report) {
	id, found, err := r.store.FindBySKU(ctx, item.SKU)
	if err != nil {
		r.logger.Error("Failed to look up SKU %s: %v", item.SKU, err)
		report.Failed++
		return
	}

	fields := r.transformer.Fields(ctx, item)

	if !found {
		product := r.transformer.NewProduct(fields)
		r.logger.Debug("Creating product with SKU %s", item.SKU)
		if err := r.store.Save(ctx, product); err != nil {
			r.logger.Error("Failed to create product %s: %v", item.SKU, err)
			report.Failed++
			return
		}
		report.Created++
		return
	}

	product, err := r.store.Get(ctx, id)
	if err != nil {
		r.logger.Error("Failed to load product %s for SKU %s: %v", id, item.SKU, err)
		report.Failed++
		return
	}
	r.transformer.ApplyUpdate(product, fields)
	r.logger.Debug("Updating product with ID %s and SKU %s", id, item.SKU)
	if err := r.store.Save(ctx, product); err != nil {
		r.logger.Error("Failed to update product %s: %v", item.SKU, err)
		report.Failed++
		return
	}
	report.Updated++
}
