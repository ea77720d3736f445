package cli

import (
	"github.com/daryltucker/tfplayer/internal/config"
	"github.com/daryltucker/tfplayer/internal/output"
	"github.com/daryltucker/tfplayer/internal/runtime"
	"github.com/daryltucker/tfplayer/internal/runtime/onnx"
	"github.com/daryltucker/tfplayer/internal/runtime/tensorflow"
)

// newRuntime constructs the backend selected for cfg.
func newRuntime(cfg *config.Config) (runtime.Runtime, error) {
	backend, err := runtime.Backend(cfg)
	if err != nil {
		return nil, err
	}
	output.Logger.Debug("Using backend", "backend", backend, "model", cfg.Model)

	if backend == config.BackendONNX {
		return onnx.New(cfg.ONNXRuntimeLibrary)
	}
	return tensorflow.New(), nil
}
