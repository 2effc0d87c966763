package cli

import (
	"github.com/spf13/cobra"

	"github.com/macropower/lintcfg/api/v1beta1/configs"
	"github.com/macropower/lintcfg/pkg/config"
)

type InitArgs struct {
	Force bool
}

func (ia *InitArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ia.Force, "force", false, "Back up and replace an existing config file")
}

func NewInitCmd() *cobra.Command {
	args := &InitArgs{}

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, posArgs []string) error {
			path := config.FileNames[0]
			if len(posArgs) == 1 {
				path = posArgs[0]
			}

			return configs.WriteDefault(path, args.Force) //nolint:wrapcheck // Errors name the file.
		},
	}

	args.AddFlags(cmd)

	return cmd
}
