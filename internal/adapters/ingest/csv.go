// Package ingest reads activity exports into raw records for the pipeline.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/okian/runstats/internal/domain/model"
)

const utf8BOM = "\ufeff"

// Dataset is a parsed export: the header in file order and one record per row.
type Dataset struct {
	Columns []string
	Rows    []model.RawRecord
}

// Read parses CSV from r. The first row is the header. Later duplicates of a
// header name are renamed Name.1, Name.2 and so on, so lookups by name see
// the first occurrence. A short row leaves its trailing columns absent from
// the record; cells past the header are ignored. Every present cell is a
// string.
func Read(r io.Reader) (*Dataset, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && string(bom) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("%w: header: %w", ErrReadCSV, err)
	}
	columns := dedupeHeader(header)

	var rows []model.RawRecord
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadCSV, err)
		}

		n := min(len(cells), len(columns))
		rec := make(model.RawRecord, n)
		for i := 0; i < n; i++ {
			rec[columns[i]] = cells[i]
		}
		rows = append(rows, rec)
	}

	return &Dataset{Columns: columns, Rows: rows}, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrReadCSV, path, err)
	}
	defer f.Close()

	return Read(f)
}

func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[h] = true
	}

	for i, h := range header {
		n, dup := seen[h]
		seen[h] = n + 1
		if !dup {
			out[i] = h
			continue
		}

		name := h + "." + strconv.Itoa(n)
		for taken[name] {
			n++
			name = h + "." + strconv.Itoa(n)
		}
		seen[h] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}
