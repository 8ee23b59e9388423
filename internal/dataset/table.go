package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is a CSV file held in memory with its header row split off
type Table struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of column name, or -1 when absent
func (t Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Require fails when any of the named columns is missing
func (t Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if t.Index(n) < 0 {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ReadTable parses CSV from r. Every row must have as many cells as the
// header; an input without a header row is an error.
func ReadTable(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, errors.New("empty file")
	}
	if err != nil {
		return Table{}, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read rows: %w", err)
	}
	return Table{Header: header, Rows: rows}, nil
}

// ReadTableFile opens path and parses it with ReadTable
func ReadTableFile(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer file.Close()

	return ReadTable(file)
}
