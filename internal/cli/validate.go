package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewValidateCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config]",
		Short: "Check a config file, its extends graph, and its override patterns",
		Long: `Check a config file, its extends graph, and its override patterns.

Without an argument, the config given by --config, or the nearest config
above the current directory, is checked. With --strict, rules are also
checked against the plugin manifests.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}

			return []cobra.Completion{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 1 {
				ra.ConfigPath = args[0]
			}

			target, err := absPath(".")
			if err != nil {
				return err
			}

			doc, err := ra.loadDocument(ctx, target)
			if err != nil {
				return err
			}

			err = ra.newEngine(doc).Validate(ctx, doc.Layers)
			if err != nil {
				return fmt.Errorf("%s: %w", doc.Path, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", doc.Path)
			if err != nil {
				return fmt.Errorf("write to stdout: %w", err)
			}

			return nil
		},
	}
}
