package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/structor"
	"github.com/viant/structor/service/meta"
)

// NewValidateCmd creates the validate command, it never calls a model
func NewValidateCmd(global *Global) *cobra.Command {
	var config string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate engine configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			definition, err := meta.New(meta.WithFS(global.fs())).Load(cmd.Context(), config)
			if err != nil {
				return err
			}
			if err = structor.Validate(definition); err != nil {
				return fmt.Errorf("invalid configuration %s: %w", config, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d fields, %d workflows\n", config, len(definition.Fields), len(definition.Workflows))
			return err
		},
	}
	cmd.Flags().StringVar(&config, "config", "", "Engine configuration URL (yaml, json or hcl)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
