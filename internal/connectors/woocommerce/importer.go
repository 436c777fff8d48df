package woocommerce

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"wpsync/internal/logger"
	"wpsync/internal/services/catalog"
	"wpsync/internal/syncer"
)

// ErrMissingSKUColumn is returned for an import file without a sku column.
var ErrMissingSKUColumn = errors.New("import file has no sku column")

// Importer is the bulk product importer used on first activation. It reads
// the CSV written by syncer.WriteCSV and upserts by SKU. Existing products
// keep their status and nothing is ever drafted.
type Importer struct {
	store       syncer.ProductStore
	transformer *catalog.Transformer
	logger      *logger.Logger
}

func NewImporter(store syncer.ProductStore, transformer *catalog.Transformer, logger *logger.Logger) *Importer {
	return &Importer{
		store:       store,
		transformer: transformer,
		logger:      logger,
	}
}

func (im *Importer) Import(ctx context.Context, r io.Reader) (syncer.Report, error) {
	var report syncer.Report

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return report, nil
		}
		return report, errors.Wrap(err, "read import header")
	}
	columns := indexColumns(header)
	if _, ok := columns["sku"]; !ok {
		return report, ErrMissingSKUColumn
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			im.logger.Warn("Skipping unreadable import line %d: %v", line, err)
			report.Failed++
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Received++
		item, ok := columns.product(record)
		if !ok {
			report.Skipped++
			continue
		}
		im.upsert(ctx, item, &report)
	}

	im.logger.Info("Imported %d rows: %d created, %d updated, %d skipped, %d failed",
		report.Received, report.Created, report.Updated, report.Skipped, report.Failed)
	return report, nil
}

func (im *Importer) upsert(ctx context.Context, item catalog.RemoteProduct, report *syncer.Report) {
	id, found, err := im.store.FindBySKU(ctx, item.SKU)
	if err != nil {
		im.logger.Error("Failed to look up SKU %s: %v", item.SKU, err)
		report.Failed++
		return
	}

	fields := im.transformer.Fields(ctx, item)

	if !found {
		if err := im.store.Save(ctx, im.transformer.NewProduct(fields)); err != nil {
			im.logger.Error("Failed to import product %s: %v", item.SKU, err)
			report.Failed++
			return
		}
		report.Created++
		return
	}

	product, err := im.store.Get(ctx, id)
	if err != nil {
		im.logger.Error("Failed to load product %s for SKU %s: %v", id, item.SKU, err)
		report.Failed++
		return
	}
	fields.Apply(product)
	if err := im.store.Save(ctx, product); err != nil {
		im.logger.Error("Failed to update product %s: %v", item.SKU, err)
		report.Failed++
		return
	}
	report.Updated++
}

type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	columns := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return columns
}

func (c columnIndex) cell(record []string, name string) *string {
	i, ok := c[name]
	if !ok || i >= len(record) || record[i] == "" {
		return nil
	}
	v := record[i]
	return &v
}

// product maps one row. Rows without a SKU are rejected; an unparseable
// stock value is dropped rather than failing the row.
func (c columnIndex) product(record []string) (catalog.RemoteProduct, bool) {
	sku := c.cell(record, "sku")
	if sku == nil || strings.TrimSpace(*sku) == "" {
		return catalog.RemoteProduct{}, false
	}

	p := catalog.RemoteProduct{
		SKU:         *sku,
		Name:        c.cell(record, "name"),
		Description: c.cell(record, "description"),
		Price:       c.cell(record, "price"),
		Picture:     c.cell(record, "picture"),
	}
	if raw := c.cell(record, "in_stock"); raw != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(*raw)); err == nil {
			p.InStock = &n
		}
	}
	return p, true
}
