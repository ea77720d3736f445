/*
PURPOSE:
  Defines the root Cobra command for the tfplayer CLI.
  The root command itself performs the load-infer-print run.

REQUIREMENTS:
  User-specified:
  - tfplayer <input-path> <output-path> -m MODEL -p PLACEHOLDER -r FETCH [-g] [-v]
  - Missing required options print usage and stop before any work.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Required options may also come from a YAML config file, so they are
    validated after merging instead of with MarkFlagRequired.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/tfplayer/main.go
  - Calls: internal/config, internal/engine, newRuntime()

ERROR HANDLING:
  - Returns error to main.go for exit code handling.
  - Option errors print usage; run errors do not.

IMPLEMENTATION RULES:
  - Logic: Load Config -> Override from flags -> Validate -> engine.Run.

USAGE:
  Called by main.go.

RELATED FILES:
  - cmd/tfplayer/main.go
  - internal/cli/list_ops.go
*/

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/tfplayer/internal/config"
	"github.com/daryltucker/tfplayer/internal/engine"
	"github.com/daryltucker/tfplayer/internal/output"
)

// options mirrors the root command flags; a flag only overrides the config
// file when it was set explicitly.
type options struct {
	cfgFile          string
	model            string
	forceGPU         bool
	inputPlaceholder string
	fetchFrom        string
	verbose          bool
	backend          string
	onnxLib          string
	resize           string
}

// NewRootCmd builds the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tfplayer <input-path> [output-path]",
		Short: "Run a pretrained graph on one image and print the result",
		Long: `Loads a serialized graph, feeds it the green channel of a PNG image as a
[1, width, height, 1] float tensor, runs it once and prints the first row of
the fetched tensor, one value per line.

Inputs whose name does not end in .png are skipped with a warning.
The output path is accepted for compatibility and currently unused.`,
		Example: `  # Run a frozen TensorFlow graph
  tfplayer digit.png out.txt -m mnist.pb -p input -r softmax

  # Request GPU placement and list graph nodes first
  tfplayer digit.png out.txt -m mnist.pb -p input -r softmax -g -v

  # Use an ONNX model (backend chosen from the .onnx extension)
  tfplayer digit.png out.txt -m mnist.onnx -p input -r output --onnxruntime-lib /usr/lib/libonnxruntime.so`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd, args)
			if err != nil {
				return err
			}
			output.SetLogger(output.NewLogger(cmd.ErrOrStderr(), cfg.Verbose))

			// Past this point failures are not usage errors.
			cmd.SilenceUsage = true

			rt, err := newRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			return engine.Run(cfg, rt, cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().StringVar(&o.cfgFile, "config", "", "config file (default is ./tfplayer.yaml)")

	f := cmd.Flags()
	f.StringVarP(&o.model, "model", "m", "", "path to model file (required)")
	f.BoolVarP(&o.forceGPU, "forceGPU", "g", false, "force GPU through runtime flags")
	f.StringVarP(&o.inputPlaceholder, "inputPlaceholderName", "p", "", "input placeholder name (required)")
	f.StringVarP(&o.fetchFrom, "fetchFrom", "r", "", "fetch result from (required)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "verbose info")
	f.StringVar(&o.backend, "backend", "", "inference backend: auto, tensorflow or onnx")
	f.StringVar(&o.onnxLib, "onnxruntime-lib", "", "path to the ONNX Runtime shared library")
	f.StringVar(&o.resize, "resize", "", "resize the image to WIDTHxHEIGHT before building the tensor")

	cmd.AddCommand(newListOpsCmd(o))
	return cmd
}

// config loads the config file and applies explicitly set flags and the
// positional arguments on top of it.
func (o *options) config(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("model") {
		cfg.Model = o.model
	}
	if f.Changed("forceGPU") {
		cfg.ForceGPU = o.forceGPU
	}
	if f.Changed("inputPlaceholderName") {
		cfg.InputPlaceholder = o.inputPlaceholder
	}
	if f.Changed("fetchFrom") {
		cfg.FetchFrom = o.fetchFrom
	}
	if f.Changed("verbose") {
		cfg.Verbose = o.verbose
	}
	if f.Changed("backend") {
		cfg.Backend = o.backend
	}
	if f.Changed("onnxruntime-lib") {
		cfg.ONNXRuntimeLibrary = o.onnxLib
	}
	if f.Changed("resize") {
		cfg.Resize = o.resize
	}

	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if len(args) > 1 {
		cfg.Output = args[1]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Execute executes the root command.
func Execute() error {
	cmd := NewRootCmd()
	cmd.SetOut(os.Stdout)
	return cmd.Execute()
}
