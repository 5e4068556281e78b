package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"jdis/internal/config"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "schema",
		Short:  "Generate JSON schema for configuration",
		Long:   "Generate JSON schema for the jdis settings file",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bts, err := json.MarshalIndent(config.Schema(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bts))
			return nil
		},
	}
}
