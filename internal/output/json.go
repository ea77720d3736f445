/*
PURPOSE:
  Writes graph operations as JSON Lines (NDJSON) for `list-ops --format json`.

REQUIREMENTS:
  Implementation-discovered:
  - JSON Lines pipes cleanly into jq and friends.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/list_ops.go
  - Consumes: internal/model.Op

ERROR HANDLING:
  - Returns the first encoding or write error.

USAGE:
  w := output.NewJSONWriter(os.Stdout)
  w.Write(op)
*/

package output

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/daryltucker/tfplayer/internal/model"
)

// JSONWriter handles writing operations as JSON lines.
type JSONWriter struct {
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates a new JSONWriter on w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{
		encoder: json.NewEncoder(w),
	}
}

// Write writes a single operation as a JSON line.
func (jw *JSONWriter) Write(op model.Op) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(op)
}

// Close is a no-op; the underlying writer belongs to the caller.
func (jw *JSONWriter) Close() error {
	return nil
}
