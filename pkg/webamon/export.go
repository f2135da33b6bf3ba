package webamon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// extensionFor returns the canonical file extension for a format. Table
// output has none; when exported it is written as plain text.
func extensionFor(format Format) string {
	switch format {
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	}
	return ""
}

// sanitizeTerm reduces a search term to something safe in a filename.
func sanitizeTerm(term string) string {
	var b strings.Builder
	for _, r := range term {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "results"
	}
	return b.String()
}

// ExportPath resolves the target path for an export. An empty return means
// the artifact goes to stdout. CSV is auto-exporting: with no explicit path
// a filename is synthesized from the search term. An explicit path without
// an extension gets the format's canonical one appended.
func ExportPath(format Format, explicit, term string) string {
	if explicit == "" {
		if format == FormatCSV {
			return fmt.Sprintf("webamon_%s.csv", sanitizeTerm(term))
		}
		return ""
	}

	if ext := extensionFor(format); ext != "" && filepath.Ext(explicit) == "" {
		return explicit + ext
	}
	return explicit
}

// WriteExport persists an artifact to path. A failure comes back as an
// *ExportError; the caller still holds the artifact and falls back to
// stdout, so a filesystem problem never loses the computed result.
func WriteExport(artifact, path string) error {
	if err := os.WriteFile(path, []byte(artifact), 0o644); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}
