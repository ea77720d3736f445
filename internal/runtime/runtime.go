/*
PURPOSE:
  Abstracts the native inference runtime behind a small capability set:
  load a serialized graph, open a session on it, run it once.

REQUIREMENTS:
  User-specified:
  - The graph and session are opaque, externally managed objects.
  - Node lookup by name; node enumeration for verbose output.
  - GPU execution is requested through session options only.

  Implementation-discovered:
  - Two backends (TensorFlow graphs, ONNX models) share this interface.
  - The engine is tested against an in-memory fake.

ARCHITECTURE INTEGRATION:
  - Implemented by: internal/runtime/tensorflow, internal/runtime/onnx
  - Used by: internal/engine, internal/cli

ERROR HANDLING:
  - Lookups of unknown nodes return ErrNodeNotFound.
  - Outputs that are not rank-2 float32 return ErrUnexpectedOutput.

IMPLEMENTATION RULES:
  - Every Graph and Session must be closed by its owner.
  - Implementations never retry.

USAGE:
  g, err := rt.Load(data)
  defer g.Close()
  s, err := g.NewSession(runtime.SessionOptions{ForceGPU: true})
  defer s.Close()
  out, err := s.Run(map[string]*tensor.Image{"input": t}, []string{"output"})

RELATED FILES:
  - internal/engine/runner.go
*/

package runtime

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/daryltucker/tfplayer/internal/config"
	"github.com/daryltucker/tfplayer/internal/model"
	"github.com/daryltucker/tfplayer/internal/tensor"
)

var (
	// ErrNodeNotFound is returned when a named node is absent from the graph.
	ErrNodeNotFound = errors.New("node not found in graph")
	// ErrUnexpectedOutput is returned when a fetched tensor is not a rank-2 float32 tensor.
	ErrUnexpectedOutput = errors.New("unexpected output tensor")
)

// Runtime turns serialized model bytes into a Graph.
type Runtime interface {
	Load(data []byte) (Graph, error)
	Close() error
}

// Graph is a loaded, immutable computational graph.
type Graph interface {
	// Lookup returns the node called name or ErrNodeNotFound.
	Lookup(name string) (model.Op, error)
	Operations() []model.Op
	NewSession(opts SessionOptions) (Session, error)
	Close() error
}

// Session executes a Graph.
type Session interface {
	// Run feeds each tensor to output 0 of the node it is keyed by and
	// returns output 0 of every fetched node, in fetch order.
	Run(feeds map[string]*tensor.Image, fetches []string) ([]*Output, error)
	Close() error
}

// SessionOptions configures session creation.
type SessionOptions struct {
	ForceGPU bool
}

// Output is a fetched float32 tensor.
type Output struct {
	Shape []int64
	Data  []float32
}

// FirstRow returns the first row of a rank-2 output.
func (o *Output) FirstRow() ([]float32, error) {
	if len(o.Shape) != 2 {
		return nil, errors.Wrapf(ErrUnexpectedOutput, "want rank 2, got shape %v", o.Shape)
	}
	if o.Shape[0] < 1 {
		return nil, errors.Wrapf(ErrUnexpectedOutput, "empty output with shape %v", o.Shape)
	}
	n := int(o.Shape[1])
	if len(o.Data) < n {
		return nil, errors.Wrapf(ErrUnexpectedOutput, "%d values for shape %v", len(o.Data), o.Shape)
	}
	return o.Data[:n], nil
}

// UnexpectedOutput builds the conversion error for a fetched value described by what.
func UnexpectedOutput(what string) error {
	return errors.Wrapf(ErrUnexpectedOutput, "want rank-2 float32, got %s", what)
}

// NotFound builds the lookup error for name.
func NotFound(name string) error {
	return errors.Wrapf(ErrNodeNotFound, "%q", name)
}

// Backend resolves the configured backend name for a model path. "auto"
// selects ONNX for .onnx files and TensorFlow for everything else.
func Backend(cfg *config.Config) (string, error) {
	switch cfg.Backend {
	case config.BackendTensorFlow, config.BackendONNX:
		return cfg.Backend, nil
	case config.BackendAuto, "":
		if strings.EqualFold(filepath.Ext(cfg.Model), ".onnx") {
			return config.BackendONNX, nil
		}
		return config.BackendTensorFlow, nil
	default:
		return "", fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
