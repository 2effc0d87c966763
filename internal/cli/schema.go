package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/lintcfg/pkg/schema"
)

func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema <kind>",
		Short:     "Print the JSON schema of a document kind",
		Args:      cobra.ExactArgs(1),
		ValidArgs: schema.KindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := schema.NewGenerator().Generate(args[0])
			if err != nil {
				return err //nolint:wrapcheck // Return the original error.
			}

			_, err = cmd.OutOrStdout().Write(data)
			if err != nil {
				return fmt.Errorf("write to stdout: %w", err)
			}

			return nil
		},
	}
}
