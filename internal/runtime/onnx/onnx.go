// Package onnx runs ONNX models through the ONNX Runtime C library.
//
// ONNX models expose no intermediate nodes through the C API, so the graph
// a caller sees consists of the model's declared inputs and outputs only.
package onnx

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/daryltucker/tfplayer/internal/model"
	"github.com/daryltucker/tfplayer/internal/runtime"
	"github.com/daryltucker/tfplayer/internal/tensor"
)

// Op types reported for model inputs and outputs.
const (
	OpInput  = "Input"
	OpOutput = "Output"
)

// Runtime owns the process-wide ONNX Runtime environment.
type Runtime struct{}

// New initializes the ONNX Runtime environment. libPath may be empty to use
// the library's default search.
func New(libPath string) (*Runtime, error) {
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	return &Runtime{}, nil
}

// Load parses the model's input and output metadata.
func (r *Runtime) Load(data []byte) (runtime.Graph, error) {
	inputs, outputs, err := ort.GetInputOutputInfoWithONNXData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read ONNX model: %w", err)
	}

	g := &Graph{data: data}
	for _, in := range inputs {
		g.ops = append(g.ops, model.Op{Type: OpInput, Name: in.Name, NumOutputs: 1})
	}
	for _, out := range outputs {
		g.ops = append(g.ops, model.Op{Type: OpOutput, Name: out.Name, NumOutputs: 1})
	}
	return g, nil
}

// Close tears down the environment.
func (r *Runtime) Close() error {
	return ort.DestroyEnvironment()
}

// Graph holds the serialized model; sessions compile it on demand.
type Graph struct {
	data []byte
	ops  []model.Op
}

// Lookup finds a declared input or output by name.
func (g *Graph) Lookup(name string) (model.Op, error) {
	for _, op := range g.ops {
		if op.Name == name {
			return op, nil
		}
	}
	return model.Op{}, runtime.NotFound(name)
}

// Operations lists inputs followed by outputs.
func (g *Graph) Operations() []model.Op {
	return append([]model.Op(nil), g.ops...)
}

// NewSession prepares session options. The CUDA execution provider is
// appended when a GPU is requested.
func (g *Graph) NewSession(opts runtime.SessionOptions) (runtime.Session, error) {
	so, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	if opts.ForceGPU {
		cuda, err := ort.NewCUDAProviderOptions()
		if err != nil {
			so.Destroy()
			return nil, fmt.Errorf("failed to create CUDA provider options: %w", err)
		}
		err = so.AppendExecutionProviderCUDA(cuda)
		cuda.Destroy()
		if err != nil {
			so.Destroy()
			return nil, fmt.Errorf("failed to enable CUDA: %w", err)
		}
	}
	return &Session{graph: g, options: so}, nil
}

// Close drops the model bytes.
func (g *Graph) Close() error {
	g.data = nil
	return nil
}

// Session binds input and output names at Run time, since ONNX Runtime
// fixes them when the native session is built.
type Session struct {
	graph   *Graph
	options *ort.SessionOptions
}

// Run builds a native session for the given names and executes it once.
func (s *Session) Run(feeds map[string]*tensor.Image, fetches []string) ([]*runtime.Output, error) {
	names := make([]string, 0, len(feeds))
	inputs := make([]ort.Value, 0, len(feeds))
	defer func() {
		for _, v := range inputs {
			v.Destroy()
		}
	}()
	for name, img := range feeds {
		if _, err := s.graph.Lookup(name); err != nil {
			return nil, err
		}
		t, err := ort.NewTensor(ort.NewShape(img.Shape()...), img.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to build input tensor for %s: %w", name, err)
		}
		names = append(names, name)
		inputs = append(inputs, t)
	}
	for _, name := range fetches {
		if _, err := s.graph.Lookup(name); err != nil {
			return nil, err
		}
	}

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(s.graph.data, names, fetches, s.options)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}
	defer session.Destroy()

	outputs := make([]ort.Value, len(fetches))
	defer func() {
		for _, v := range outputs {
			if v != nil {
				v.Destroy()
			}
		}
	}()
	if err := session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := make([]*runtime.Output, 0, len(outputs))
	for i, v := range outputs {
		o, err := convert(v)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", fetches[i], err)
		}
		out = append(out, o)
	}
	return out, nil
}

// Close releases the session options.
func (s *Session) Close() error {
	return s.options.Destroy()
}

func convert(v ort.Value) (*runtime.Output, error) {
	t, ok := v.(*ort.Tensor[float32])
	if !ok {
		return nil, runtime.UnexpectedOutput(fmt.Sprintf("%T", v))
	}
	shape := t.GetShape()
	if len(shape) != 2 {
		return nil, runtime.UnexpectedOutput(fmt.Sprintf("shape %v", shape))
	}
	return &runtime.Output{
		Shape: []int64{shape[0], shape[1]},
		Data:  append([]float32(nil), t.GetData()...),
	}, nil
}
