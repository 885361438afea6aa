// Package mimetype resolves a best-guess content type for a filename.
package mimetype

import (
	"mime"
	"path/filepath"
	"strings"
)

// Overrides for extensions the platform table frequently lacks.
var common = map[string]string{
	".md":   "text/markdown",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".json": "application/json",
	".pdf":  "application/pdf",
	".html": "text/html",
	".xml":  "application/xml",
}

// Guess maps a filename to a MIME type: platform table first, then the
// override table, then application/octet-stream. Never fails.
func Guess(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	if mt, ok := common[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}
