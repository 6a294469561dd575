package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/structor/runtime/orchestrator"
)

// NewRunCmd creates the run command
func NewRunCmd(global *Global) *cobra.Command {
	var flags engineFlags
	var input string
	var fields []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract structured data from text",
		Long:  "Extract structured data from text. Input is read from --input URL or stdin when --input is '-'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := global.Logger(cmd.ErrOrStderr())
			global.initTracing(logger)

			text, err := global.readInput(cmd, input)
			if err != nil {
				return err
			}
			srv, err := global.load(ctx, &flags, logger)
			if err != nil {
				return err
			}
			var result *orchestrator.Result
			var runErr error
			if len(fields) > 0 {
				result, runErr = srv.RunFields(ctx, text, fields...)
			} else {
				result, runErr = srv.Run(ctx, text)
			}
			if result != nil {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			}
			return runErr
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&input, "input", "-", "Input text URL, '-' reads stdin")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Extract only the listed field ids")
	return cmd
}

func (g *Global) readInput(cmd *cobra.Command, input string) (string, error) {
	var data []byte
	var err error
	if input == "" || input == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = g.fs().DownloadWithURL(cmd.Context(), input)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input %s: %w", input, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.New("input text was empty")
	}
	return text, nil
}

func writeJSON(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
