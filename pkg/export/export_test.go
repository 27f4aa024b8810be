package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/crewplan/infra/sheet"
)

var rows = []Row{
	{Helper: "김다비", Team: "진행팀", Start: "PM 1:00", End: "PM 2:00", Title: "접수", Location: "로비"},
	Unassigned("이진", "Unassigned"),
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	tbl, err := sheet.Decode(&buf, true)
	require.NoError(t, err)
	assert.Equal(t, csvHeader, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"이진", "Unassigned", "-", "-", NoAssignment, ""}, tbl.Rows[1])
}

func TestWriteJSONAndYAML(t *testing.T) {
	var jbuf bytes.Buffer
	require.NoError(t, WriteJSON(&jbuf, rows))
	var fromJSON []Row
	require.NoError(t, json.Unmarshal(jbuf.Bytes(), &fromJSON))
	assert.Equal(t, rows, fromJSON)

	var ybuf bytes.Buffer
	require.NoError(t, WriteYAML(&ybuf, rows))
	assert.Contains(t, ybuf.String(), "helper: 김다비")
	var fromYAML []Row
	require.NoError(t, yaml.Unmarshal(ybuf.Bytes(), &fromYAML))
	assert.Equal(t, rows, fromYAML)

	jbuf.Reset()
	require.NoError(t, WriteJSON(&jbuf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(jbuf.String()))
}

func TestWriteFileByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"x.csv", "x.json", "x.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, rows))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "김다비", name)
	}
	assert.Error(t, WriteFile(filepath.Join(dir, "x.pdf"), rows))
}
