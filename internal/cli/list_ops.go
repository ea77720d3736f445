/*
PURPOSE:
  Defines the 'list-ops' subcommand.
  Prints every node of a model without running it, which helps find the
  placeholder and fetch names to pass to the root command.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.ListOps()

USAGE:
  tfplayer list-ops -m mnist.pb --format json
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/tfplayer/internal/config"
	"github.com/daryltucker/tfplayer/internal/engine"
	"github.com/daryltucker/tfplayer/internal/runtime"
)

func newListOpsCmd(root *options) *cobra.Command {
	var (
		model  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "list-ops",
		Short: "List the operations of a model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("model") {
				cfg.Model = model
			}
			if cfg.Model == "" {
				return fmt.Errorf("-m/--model: %w", config.ErrMissingField)
			}
			if cmd.Flags().Changed("backend") {
				cfg.Backend = root.backend
			}
			if cmd.Flags().Changed("onnxruntime-lib") {
				cfg.ONNXRuntimeLibrary = root.onnxLib
			}
			if _, err := runtime.Backend(cfg); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			rt, err := newRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			return engine.ListOps(rt, cfg.Model, format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "path to model file (required)")
	cmd.Flags().StringVar(&format, "format", engine.FormatText, "output format: text, json or csv")
	cmd.Flags().StringVar(&root.backend, "backend", "", "inference backend: auto, tensorflow or onnx")
	cmd.Flags().StringVar(&root.onnxLib, "onnxruntime-lib", "", "path to the ONNX Runtime shared library")
	return cmd
}
