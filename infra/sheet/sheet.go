// Package sheet reads and writes the CSV exports that flow between the
// spreadsheet collaborators and the allocation tools.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// bom is written by the spreadsheet exporters (utf-8-sig) and kept on save so
// the files still open correctly in spreadsheet software.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Table is a header row plus data rows. Rows may be ragged.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the first header matching one of names, or -1.
func (t Table) Column(names ...string) int {
	for _, n := range names {
		for i, h := range t.Header {
			if strings.TrimSpace(h) == n {
				return i
			}
		}
	}
	return -1
}

// Cell returns row[col] or "" when the row is too short or col is -1.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Decode parses CSV data. When header is false every row is returned in Rows.
func Decode(r io.Reader, header bool) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, err
	}
	data = bytes.TrimPrefix(data, bom)
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}
	var t Table
	if header {
		if len(records) == 0 {
			return Table{}, errors.New("empty table")
		}
		t.Header = make([]string, len(records[0]))
		for i, h := range records[0] {
			t.Header[i] = strings.TrimSpace(h)
		}
		records = records[1:]
	}
	t.Rows = records
	return t, nil
}

// ReadFile decodes the CSV file at path.
func ReadFile(path string, header bool) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer func() { _ = f.Close() }()
	t, err := Decode(f, header)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Encode writes t as CSV, prefixed with a UTF-8 BOM.
func Encode(w io.Writer, t Table) error {
	if _, err := w.Write(bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile atomically replaces path with the encoded table. The data is
// written to a temporary sibling, synced and renamed over the target so a
// crash mid-write leaves the previous file intact.
func WriteFile(path string, t Table) error {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return err
	}
	return WriteAtomic(path, buf.Bytes(), 0o644)
}

// WriteAtomic writes data to path via temp file + rename.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()
	// Some filesystems refuse fsync on directories; the rename already happened.
	_ = d.Sync()
	return nil
}
