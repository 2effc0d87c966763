package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewPrintConfigCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "print-config <file>",
		Short: "Print the effective configuration of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			target, err := absPath(args[0])
			if err != nil {
				return err
			}

			doc, err := ra.loadDocument(ctx, target)
			if err != nil {
				return err
			}

			cfg, err := ra.newEngine(doc).ResolveStackForFile(ctx, doc.Layers, target)
			if err != nil {
				return err //nolint:wrapcheck // Errors name the file.
			}

			out, err := cfg.MarshalYAML()
			if err != nil {
				return fmt.Errorf("marshal effective config: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)
			if err != nil {
				return fmt.Errorf("write to stdout: %w", err)
			}

			return nil
		},
	}
}
