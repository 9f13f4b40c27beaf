package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pos-engine/internal/domain"
)

type ItemWriter interface {
	Upsert(ctx context.Context, item domain.Item) (*domain.Item, error)
}

// CSVImporter reads id,name,price catalog exports and upserts the items.
// The whole file is validated before the first write.
type CSVImporter struct {
	reader *csv.Reader
	writer ItemWriter
}

func NewCSVImporter(r io.Reader, writer ItemWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr, writer: writer}
}

// Run parses every row and then upserts the items in file order.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	items, err := i.parse()
	if err != nil {
		return 0, err
	}
	return Write(ctx, i.writer, items)
}

func (i *CSVImporter) parse() ([]domain.Item, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range []string{"id", "name", "price"} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var items []domain.Item
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}
		item, err := parseRow(record, index)
		if err != nil {
			line, _ := i.reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Write upserts items in order and reports how many were written.
func Write(ctx context.Context, writer ItemWriter, items []domain.Item) (int, error) {
	written := 0
	for _, it := range items {
		if _, err := writer.Upsert(ctx, it); err != nil {
			return written, fmt.Errorf("upsert item %q: %w", it.ID, err)
		}
		written++
	}
	return written, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Item, error) {
	id := pick(record, index, "id")
	name := pick(record, index, "name")
	priceStr := pick(record, index, "price")

	if id == "" || name == "" || priceStr == "" {
		return domain.Item{}, fmt.Errorf("invalid item row (missing required fields) for id %q", id)
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return domain.Item{}, fmt.Errorf("invalid price %q for id %q", priceStr, id)
	}
	if price < 0 {
		return domain.Item{}, fmt.Errorf("negative price for id %q", id)
	}
	return domain.Item{ID: id, Name: name, Price: price}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
