// Command structor extracts structured data from text with a language model.
//
// Usage:
//
//	structor [--log-level info] [--log-format text] [--trace-file path] <command> [flags]
//
// Commands:
//
//	run       extract data from one input
//	validate  validate an engine configuration
//	serve     serve extractions over HTTP
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/structor/internal/cli"
	"github.com/viant/structor/tracing"
)

// version is set with ldflags at build time.
var version = "dev"

func main() {
	global := &cli.Global{Version: version}
	rootCmd := &cobra.Command{
		Use:           "structor",
		Short:         "structor: LLM driven structured data extraction",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	global.Bind(rootCmd)
	rootCmd.AddCommand(
		cli.NewRunCmd(global),
		cli.NewValidateCmd(global),
		cli.NewServeCmd(global),
	)

	err := rootCmd.Execute()
	_ = tracing.Shutdown(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
