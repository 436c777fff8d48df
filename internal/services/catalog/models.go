package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// RemoteProduct is one record of the remote product export. SKU is the only
// required field; nil pointers mean the field was absent from the feed.
type RemoteProduct struct {
	SKU         string  `json:"sku"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *string `json:"price,omitempty"`
	Picture     *string `json:"picture,omitempty"`
	InStock     *int    `json:"in_stock,omitempty"`
}

// UnmarshalJSON accepts scalar fields as either JSON strings or numbers,
// since the feed is not consistent about them. Only an unusable sku fails
// the record; any other field that cannot be read is left unset.
func (p *RemoteProduct) UnmarshalJSON(data []byte) error {
	var raw struct {
		SKU         json.RawMessage `json:"sku"`
		Name        json.RawMessage `json:"name"`
		Description json.RawMessage `json:"description"`
		Price       json.RawMessage `json:"price"`
		Picture     json.RawMessage `json:"picture"`
		InStock     json.RawMessage `json:"in_stock"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	sku, err := scalarString(raw.SKU)
	if err != nil {
		return errors.Wrap(err, "sku")
	}

	*p = RemoteProduct{
		Name:        optionalString(raw.Name),
		Description: optionalString(raw.Description),
		Price:       optionalString(raw.Price),
		Picture:     optionalString(raw.Picture),
	}
	if sku != nil {
		p.SKU = *sku
	}
	if stock := optionalString(raw.InStock); stock != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(*stock)); err == nil {
			p.InStock = &n
		}
	}
	return nil
}

func optionalString(raw json.RawMessage) *string {
	s, err := scalarString(raw)
	if err != nil {
		return nil
	}
	return s
}

func scalarString(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	s := n.String()
	return &s, nil
}

// ProductsResponse is the envelope returned by the products endpoint.
// Records stay raw so one malformed entry does not discard the page.
type ProductsResponse struct {
	Data []json.RawMessage `json:"data"`
}
