/*
PURPOSE:
  Writes graph operations to CSV for `list-ops --format csv`.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/list_ops.go
  - Consumes: internal/model.Op

ERROR HANDLING:
  - Returns error on header or record write failure.

USAGE:
  w, err := output.NewCSVWriter(os.Stdout)
  w.Write(op)
  w.Close()
*/

package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"sync"

	"github.com/daryltucker/tfplayer/internal/model"
)

// CSVWriter handles writing operations as CSV records.
type CSVWriter struct {
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter and writes the header row.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)

	header := []string{"type", "name", "num_outputs"}
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}

	return &CSVWriter{
		writer: cw,
	}, nil
}

// Write writes a single operation.
// It is thread-safe.
func (cw *CSVWriter) Write(op model.Op) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	record := []string{
		op.Type,
		op.Name,
		strconv.Itoa(op.NumOutputs),
	}

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close flushes any buffered records.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.writer.Error()
}
