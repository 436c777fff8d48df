package syncer

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/go-faster/errors"

	"wpsync/internal/services/catalog"
)

// CSVColumns is the header of the bulk import file, in order.
var CSVColumns = []string{"sku", "name", "description", "price", "picture", "in_stock"}

// WriteCSV shapes remote records into the bulk import format. Absent
// fields become empty cells.
func WriteCSV(w io.Writer, products []catalog.RemoteProduct) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	for _, p := range products {
		stock := ""
		if p.InStock != nil {
			stock = strconv.Itoa(*p.InStock)
		}
		row := []string{p.SKU, deref(p.Name), deref(p.Description), deref(p.Price), deref(p.Picture), stock}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write csv row for %s", p.SKU)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "flush csv")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
