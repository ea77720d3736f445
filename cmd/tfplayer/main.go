/*
PURPOSE:
  Entry point for tfplayer.
  Builds the CLI root command and executes it.

ERROR HANDLING:
  - Explicit error check on Execute(); exit code 1 on failure.

IMPLEMENTATION RULES:
  - Critical: Keep main() minimal. All logic belongs in internal/ packages.

USAGE:
  go build -o tfplayer ./cmd/tfplayer
  ./tfplayer digit.png out.txt -m model.pb -p input -r output
*/

package main

import (
	"fmt"
	"os"

	"github.com/daryltucker/tfplayer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
