package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/daryltucker/tfplayer/internal/model"
)

// FormatScalar renders v as the shortest decimal text that parses back to
// the same float32. The result does not depend on the host locale.
func FormatScalar(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// PrintRow writes one scalar per line.
func PrintRow(w io.Writer, row []float32) error {
	bw := bufio.NewWriter(w)
	for _, v := range row {
		bw.WriteString(FormatScalar(v))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// PrintOps writes one "OT: <type> <name>" line per operation.
func PrintOps(w io.Writer, ops []model.Op) error {
	bw := bufio.NewWriter(w)
	for _, op := range ops {
		fmt.Fprintf(bw, "OT: %s %s\n", op.Type, op.Name)
	}
	return bw.Flush()
}
