package scanner

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
)

var structuredKeys = []string{"rooms", "corridors", "paths", "walkways"}

var rasterExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".webp": true, ".tif": true, ".tiff": true,
}

// DetectFormat classifies input by content. The filename extension is only
// consulted when the content itself is inconclusive.
func DetectFormat(input []byte, filename string) Format {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(input, []byte("\xef\xbb\xbf")))
	ext := strings.ToLower(filepath.Ext(filename))

	if len(trimmed) > 0 && strings.HasPrefix(http.DetectContentType(trimmed), "image/") {
		return FormatRaster
	}

	switch {
	case len(trimmed) > 0 && trimmed[0] == '<':
		if bytes.Contains(bytes.ToLower(trimmed), []byte("<svg")) || ext == ".svg" {
			return FormatMarkup
		}
	case len(trimmed) > 0 && trimmed[0] == '{':
		if hasStructuredKeys(trimmed) {
			return FormatStructured
		}
		// A truncated document is still structured input; the decode error
		// is reported per scan.
		if !json.Valid(trimmed) {
			return FormatStructured
		}
	}

	switch {
	case ext == ".svg" && len(trimmed) > 0:
		return FormatMarkup
	case ext == ".json" && len(trimmed) > 0 && !json.Valid(trimmed):
		return FormatStructured
	case rasterExtensions[ext]:
		return FormatRaster
	}
	return FormatUnknown
}

func hasStructuredKeys(data []byte) bool {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return false
	}
	for _, k := range structuredKeys {
		if _, ok := top[k]; ok {
			return true
		}
	}
	return false
}
