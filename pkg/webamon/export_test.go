package webamon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportPathCSVSynthesizesFilename(t *testing.T) {
	path := ExportPath(FormatCSV, "", "bank-site.com")
	assert.Equal(t, "webamon_bank-site.com.csv", path)
	assert.NotEmpty(t, path)
}

func TestExportPathSanitizesTerm(t *testing.T) {
	path := ExportPath(FormatCSV, "", `domain.name:"bank*" AND x`)
	assert.Equal(t, "webamon_domain.name__bank___AND_x.csv", path)
}

func TestExportPathStdoutDefaults(t *testing.T) {
	assert.Empty(t, ExportPath(FormatJSON, "", "x"))
	assert.Empty(t, ExportPath(FormatTable, "", "x"))
}

func TestExportPathAppendsExtension(t *testing.T) {
	assert.Equal(t, "out.json", ExportPath(FormatJSON, "out", "x"))
	assert.Equal(t, "out.csv", ExportPath(FormatCSV, "out", "x"))
	assert.Equal(t, "out.txt", ExportPath(FormatJSON, "out.txt", "x"))
	// table has no canonical extension; an explicit path is plain text.
	assert.Equal(t, "out", ExportPath(FormatTable, "out", "x"))
}

func TestWriteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, WriteExport("a,b\n1,2\n", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func TestWriteExportFailureIsExportError(t *testing.T) {
	err := WriteExport("content", filepath.Join(t.TempDir(), "missing", "out.csv"))

	var exp *ExportError
	require.ErrorAs(t, err, &exp)
	assert.Contains(t, exp.Error(), "failed to write export")
}
