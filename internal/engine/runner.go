/*
PURPOSE:
  Runs the load-infer-print pipeline exactly once:
  model bytes -> graph -> session -> decoded image -> tensor -> run -> stdout.

REQUIREMENTS:
  User-specified:
  - Verbose mode lists every graph node before running.
  - Only .png inputs are processed; other names are skipped without error.
  - Input tensor is [1, W, H, 1] of green-channel values.
  - The first row of the fetched tensor is printed, one value per line.

  Implementation-discovered:
  - The skip on a non-matching extension is logged as a warning.
  - Both named nodes are checked before the session runs, so a bad name
    fails before anything is printed.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/runtime, internal/imaging, internal/tensor, internal/output

ERROR HANDLING:
  - Every failure aborts the run and is returned; there is no retry.
  - Graph and session are closed on every path.

IMPLEMENTATION RULES:
  - Strictly sequential. No goroutines.
  - stdout receives only OT lines and result values.

USAGE:
  engine.Run(cfg, rt, os.Stdout)

RELATED FILES:
  - internal/runtime/runtime.go
*/

package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/daryltucker/tfplayer/internal/config"
	"github.com/daryltucker/tfplayer/internal/imaging"
	"github.com/daryltucker/tfplayer/internal/output"
	"github.com/daryltucker/tfplayer/internal/runtime"
	"github.com/daryltucker/tfplayer/internal/tensor"
)

// LoadGraph reads the model file and hands its bytes to the runtime.
func LoadGraph(rt runtime.Runtime, path string) (runtime.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	g, err := rt.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}
	output.Logger.Debug("Model loaded", "path", path, "bytes", len(data))
	return g, nil
}

// Run executes one inference for cfg and prints the result to stdout.
func Run(cfg *config.Config, rt runtime.Runtime, stdout io.Writer) (err error) {
	graph, err := LoadGraph(rt, cfg.Model)
	if err != nil {
		return err
	}
	defer closeWith(&err, graph, "graph")

	session, err := graph.NewSession(runtime.SessionOptions{ForceGPU: cfg.ForceGPU})
	if err != nil {
		return err
	}
	defer closeWith(&err, session, "session")

	if cfg.Verbose {
		if err := output.PrintOps(stdout, graph.Operations()); err != nil {
			return err
		}
	}

	if cfg.Output != "" {
		output.Logger.Debug("Output path is accepted but not used", "output", cfg.Output)
	}

	if !imaging.Supported(cfg.Input) {
		output.Logger.Warn("Skipping input: unsupported file extension", "input", cfg.Input, "want", imaging.Extension)
		return nil
	}

	input, err := Assemble(cfg)
	if err != nil {
		return err
	}

	for _, name := range []string{cfg.InputPlaceholder, cfg.FetchFrom} {
		if _, err := graph.Lookup(name); err != nil {
			return err
		}
	}

	outputs, err := session.Run(map[string]*tensor.Image{cfg.InputPlaceholder: input}, []string{cfg.FetchFrom})
	if err != nil {
		return err
	}
	if len(outputs) != 1 {
		return fmt.Errorf("expected 1 output tensor, got %d", len(outputs))
	}

	row, err := outputs[0].FirstRow()
	if err != nil {
		return err
	}
	return output.PrintRow(stdout, row)
}

// Assemble decodes cfg.Input, applies the optional resize and builds the
// input tensor.
func Assemble(cfg *config.Config) (*tensor.Image, error) {
	img, err := imaging.Open(cfg.Input)
	if err != nil {
		return nil, err
	}

	w, h, err := cfg.ResizeDims()
	if err != nil {
		return nil, err
	}
	if w > 0 {
		img = imaging.Resize(img, w, h)
	}

	buf, err := imaging.FromImage(img)
	if err != nil {
		return nil, err
	}
	output.Logger.Debug("Image decoded", "input", cfg.Input, "width", buf.Width, "height", buf.Height)
	return tensor.FromGreen(buf), nil
}

type closer interface {
	Close() error
}

// closeWith closes c and keeps the first error seen by the caller.
func closeWith(err *error, c closer, what string) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("failed to close %s: %w", what, cerr)
	}
}
