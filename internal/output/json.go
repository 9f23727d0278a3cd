// Package output renders command results as JSON on stdout.
package output

import (
	"encoding/json"
	"io"
)

// JSON writes v as two-space indented JSON followed by a newline.
// HTML escaping is disabled so filter queries and URLs round-trip
// readably.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
