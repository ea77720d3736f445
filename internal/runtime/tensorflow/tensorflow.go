/*
PURPOSE:
  TensorFlow backend: imports a serialized GraphDef and runs it through
  the TensorFlow C library bindings.

REQUIREMENTS:
  User-specified:
  - GPU execution is requested with a fixed, opaque ConfigProto blob.
  - Feeds and fetches address output 0 of the named node.

  Implementation-discovered:
  - graph.Operation returns nil for unknown names; we map that to
    runtime.ErrNodeNotFound before running.
  - tf.Tensor.Value() of a rank-2 float tensor is [][]float32.

ARCHITECTURE INTEGRATION:
  - Implements: internal/runtime.Runtime / Graph / Session
  - Constructed by: internal/cli
  - Dependencies: github.com/galeone/tensorflow/tensorflow/go (cgo, libtensorflow)

ERROR HANDLING:
  - Import and session errors are wrapped and returned.
  - Runtime errors from Session.Run are surfaced unchanged (wrapped once).

IMPLEMENTATION RULES:
  - Do not interpret GPUConfig; it is passed through as-is.

SELF-HEALING INSTRUCTIONS:
  - If a newer TensorFlow rejects GPUConfig, regenerate it from a
    ConfigProto with gpu_options.allow_growth = true.

RELATED FILES:
  - internal/runtime/runtime.go
*/

package tensorflow

import (
	"fmt"

	tf "github.com/galeone/tensorflow/tensorflow/go"

	"github.com/daryltucker/tfplayer/internal/model"
	"github.com/daryltucker/tfplayer/internal/runtime"
	"github.com/daryltucker/tfplayer/internal/tensor"
)

// GPUConfig is a serialized ConfigProto understood by the TensorFlow
// runtime: field 6 (gpu_options) carrying field 4 (allow_growth) = true.
var GPUConfig = []byte{0x32, 0x02, 0x20, 0x01}

// Runtime loads TensorFlow graphs.
type Runtime struct{}

// New creates a TensorFlow runtime.
func New() *Runtime {
	return &Runtime{}
}

// Load imports a serialized GraphDef.
func (r *Runtime) Load(data []byte) (runtime.Graph, error) {
	g := tf.NewGraph()
	if err := g.Import(data, ""); err != nil {
		return nil, fmt.Errorf("failed to import graph: %w", err)
	}
	return &Graph{graph: g}, nil
}

// Close is a no-op; graph memory is owned by the Go garbage collector.
func (r *Runtime) Close() error {
	return nil
}

// Graph wraps a tf.Graph.
type Graph struct {
	graph *tf.Graph
}

// Lookup returns the operation called name.
func (g *Graph) Lookup(name string) (model.Op, error) {
	op := g.graph.Operation(name)
	if op == nil {
		return model.Op{}, runtime.NotFound(name)
	}
	return describe(op), nil
}

// Operations lists every operation in the graph in graph order.
func (g *Graph) Operations() []model.Op {
	ops := g.graph.Operations()
	out := make([]model.Op, 0, len(ops))
	for i := range ops {
		out = append(out, describe(&ops[i]))
	}
	return out
}

// NewSession opens a session on the graph.
func (g *Graph) NewSession(opts runtime.SessionOptions) (runtime.Session, error) {
	s, err := tf.NewSession(g.graph, SessionOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &Session{graph: g.graph, session: s}, nil
}

// Close releases the graph.
func (g *Graph) Close() error {
	g.graph = nil
	return nil
}

// SessionOptions translates the backend-neutral options.
func SessionOptions(opts runtime.SessionOptions) *tf.SessionOptions {
	so := &tf.SessionOptions{}
	if opts.ForceGPU {
		so.Config = GPUConfig
	}
	return so
}

// Session wraps a tf.Session.
type Session struct {
	graph   *tf.Graph
	session *tf.Session
}

// Run executes the graph once.
func (s *Session) Run(feeds map[string]*tensor.Image, fetches []string) ([]*runtime.Output, error) {
	inputs := make(map[tf.Output]*tf.Tensor, len(feeds))
	for name, img := range feeds {
		op := s.graph.Operation(name)
		if op == nil {
			return nil, runtime.NotFound(name)
		}
		t, err := tf.NewTensor(img.Nested())
		if err != nil {
			return nil, fmt.Errorf("failed to build input tensor for %s: %w", name, err)
		}
		inputs[op.Output(0)] = t
	}

	outputs := make([]tf.Output, 0, len(fetches))
	for _, name := range fetches {
		op := s.graph.Operation(name)
		if op == nil {
			return nil, runtime.NotFound(name)
		}
		outputs = append(outputs, op.Output(0))
	}

	results, err := s.session.Run(inputs, outputs, nil)
	if err != nil {
		return nil, fmt.Errorf("session run failed: %w", err)
	}

	out := make([]*runtime.Output, 0, len(results))
	for i, t := range results {
		o, err := convert(t)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", fetches[i], err)
		}
		out = append(out, o)
	}
	return out, nil
}

// Close releases the native session.
func (s *Session) Close() error {
	return s.session.Close()
}

func describe(op *tf.Operation) model.Op {
	return model.Op{Type: op.Type(), Name: op.Name(), NumOutputs: op.NumOutputs()}
}

func convert(t *tf.Tensor) (*runtime.Output, error) {
	rows, ok := t.Value().([][]float32)
	if !ok {
		return nil, runtime.UnexpectedOutput(fmt.Sprintf("%T", t.Value()))
	}
	return flatten(rows), nil
}

func flatten(rows [][]float32) *runtime.Output {
	o := &runtime.Output{Shape: []int64{int64(len(rows)), 0}}
	if len(rows) > 0 {
		o.Shape[1] = int64(len(rows[0]))
	}
	for _, r := range rows {
		o.Data = append(o.Data, r...)
	}
	return o
}
