package engine

import (
	"fmt"
	"io"

	"github.com/daryltucker/tfplayer/internal/output"
	"github.com/daryltucker/tfplayer/internal/runtime"
)

// List formats accepted by ListOps.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ListOps loads the model at path and writes its operations to w.
func ListOps(rt runtime.Runtime, path, format string, w io.Writer) (err error) {
	graph, err := LoadGraph(rt, path)
	if err != nil {
		return err
	}
	defer closeWith(&err, graph, "graph")

	ops := graph.Operations()
	switch format {
	case FormatText, "":
		return output.PrintOps(w, ops)
	case FormatJSON:
		jw := output.NewJSONWriter(w)
		defer jw.Close()
		for _, op := range ops {
			if err := jw.Write(op); err != nil {
				return err
			}
		}
		return nil
	case FormatCSV:
		cw, err := output.NewCSVWriter(w)
		if err != nil {
			return err
		}
		defer cw.Close()
		for _, op := range ops {
			if err := cw.Write(op); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatText, FormatJSON, FormatCSV)
	}
}
