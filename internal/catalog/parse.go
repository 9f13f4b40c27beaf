package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"pos-engine/internal/domain"
)

// ParseItems decodes a JSON array of {id, name, price} records. Any malformed
// record fails the whole catalog; a partial catalog is never returned.
func ParseItems(r io.Reader) ([]domain.Item, error) {
	dec := json.NewDecoder(r)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, &domain.CatalogLoadError{Message: "catalog must be a JSON array of objects", Err: err}
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &domain.CatalogLoadError{Message: "catalog must be a JSON array of objects"}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &domain.CatalogLoadError{Message: "unexpected data after catalog array"}
	}

	var records []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &domain.CatalogLoadError{Message: "catalog must be a JSON array of objects", Err: err}
	}

	items := make([]domain.Item, 0, len(records))
	for i, rec := range records {
		item, err := parseRecord(rec)
		if err != nil {
			return nil, &domain.CatalogLoadError{Message: fmt.Sprintf("record %d: %s", i, err)}
		}
		items = append(items, item)
	}
	return items, nil
}

func parseRecord(rec map[string]json.RawMessage) (domain.Item, error) {
	if rec == nil {
		return domain.Item{}, fmt.Errorf("record must be an object")
	}
	var item domain.Item
	if err := field(rec, "id", &item.ID, "a string"); err != nil {
		return item, err
	}
	if item.ID == "" {
		return item, fmt.Errorf("field %q must not be empty", "id")
	}
	if err := field(rec, "name", &item.Name, "a string"); err != nil {
		return item, err
	}
	if err := field(rec, "price", &item.Price, "a number"); err != nil {
		return item, err
	}
	if item.Price < 0 {
		return item, fmt.Errorf("field %q must not be negative", "price")
	}
	return item, nil
}

func field(rec map[string]json.RawMessage, name string, dst interface{}, kind string) error {
	raw, ok := rec[name]
	if !ok || string(raw) == "null" {
		return fmt.Errorf("missing field %q", name)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %q must be %s", name, kind)
	}
	return nil
}
