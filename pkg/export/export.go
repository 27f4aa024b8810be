// Package export writes the helper by task cross-reference of a day in
// the formats handed to coordinators.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/crewplan/infra/sheet"
)

// NoAssignment is the title given to helpers without any task.
const NoAssignment = "배정 없음"

// Row pairs one helper with one of their tasks. Helpers without tasks
// appear once with placeholder times and NoAssignment as title.
type Row struct {
	Helper   string `json:"helper" yaml:"helper"`
	Team     string `json:"team" yaml:"team"`
	Start    string `json:"start" yaml:"start"`
	End      string `json:"end" yaml:"end"`
	Title    string `json:"title" yaml:"title"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// Unassigned builds the row of a helper without tasks.
func Unassigned(helper, team string) Row {
	return Row{Helper: helper, Team: team, Start: "-", End: "-", Title: NoAssignment}
}

var csvHeader = []string{"이름", "팀", "시작시간", "종료시간", "일정", "장소"}

// WriteCSV writes rows to w with a UTF-8 BOM so spreadsheet tools detect
// the encoding.
func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Helper, r.Team, r.Start, r.End, r.Title, r.Location}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes rows to w as an indented JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if rows == nil {
		rows = []Row{}
	}
	return enc.Encode(rows)
}

// WriteYAML writes rows to w as a YAML sequence.
func WriteYAML(w io.Writer, rows []Row) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile writes rows to path in the format named by its extension
// (.csv, .json, .yaml or .yml). The file is replaced atomically.
func WriteFile(path string, rows []Row) error {
	var buf bytes.Buffer
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		err = WriteCSV(&buf, rows)
	case ".json":
		err = WriteJSON(&buf, rows)
	case ".yaml", ".yml":
		err = WriteYAML(&buf, rows)
	default:
		return fmt.Errorf("export: unsupported format %q", ext)
	}
	if err != nil {
		return err
	}
	return sheet.WriteAtomic(path, buf.Bytes(), os.FileMode(0o644))
}
