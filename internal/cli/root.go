package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/lintcfg/api"
	"github.com/macropower/lintcfg/pkg/config"
	"github.com/macropower/lintcfg/pkg/log"
	"github.com/macropower/lintcfg/pkg/plugin"
	"github.com/macropower/lintcfg/pkg/resolve"
	"github.com/macropower/lintcfg/pkg/version"
)

const (
	cmdName = "lintcfg"
	cmdDesc = `Resolve layered lint configurations into the effective config of a file.`

	cmdExamples = `  # Print the effective config of a file:
  lintcfg print-config ./src/app.ts

  # Use a specific config file and an extra plugin directory:
  lintcfg print-config ./src/app.ts --config ./ci.lintcfg.yaml --plugin-dir ./plugins

  # Check the nearest config, failing on unknown plugins and rules:
  lintcfg validate --strict

  # Print the JSON schema of a document kind:
  lintcfg schema Config`
)

type RootArgs struct {
	LogLevel   string
	LogFormat  string
	ConfigPath string
	PluginDirs []string
	Strict     bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.Levels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.Formats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the config file, searched upward from the target by default")
	cmd.PersistentFlags().
		StringSliceVar(&ra.PluginDirs, "plugin-dir", nil,
			fmt.Sprintf("Directories containing plugin manifests (default %s)", defaultPluginDir()))
	cmd.PersistentFlags().
		BoolVar(&ra.Strict, "strict", false, "Fail on plugins and rules that are not defined by a manifest")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.Formats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.Levels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	err = cmd.MarkPersistentFlagDirname("plugin-dir")
	if err != nil {
		panic(fmt.Errorf("mark plugin-dir flag: %w", err))
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		SilenceUsage:      true,
	}

	args.AddFlags(cmd)
	cmd.AddCommand(
		NewPrintConfigCmd(args),
		NewValidateCmd(args),
		NewSchemaCmd(),
		NewInitCmd(),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.NewHandler(cmd.ErrOrStderr(), rc.LogLevel, rc.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))
		slog.Debug("build info", version.Attrs()...)

		return nil
	}
}

// loadDocument loads the config file for target, or the one given by
// --config.
func (ra *RootArgs) loadDocument(ctx context.Context, target string) (*config.Document, error) {
	path := ra.ConfigPath
	if path == "" {
		var err error

		path, err = config.Find(target)
		if err != nil {
			return nil, err //nolint:wrapcheck // Return the original error.
		}
	}

	slog.DebugContext(ctx, "load config", slog.String("path", path))

	loader := config.NewFileLoader(config.WithColor(term.IsTerminal(int(os.Stderr.Fd()))))

	doc, err := loader.LoadDocument(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return doc, nil
}

// newEngine creates an [resolve.Engine] rooted at the document's directory.
func (ra *RootArgs) newEngine(doc *config.Document) *resolve.Engine {
	dirs := ra.PluginDirs
	if len(dirs) == 0 {
		dirs = []string{defaultPluginDir()}
	}

	return resolve.NewEngine(
		resolve.WithRegistry(plugin.NewDefaultRegistry(dirs...)),
		resolve.WithLoader(config.NewFileLoader()),
		resolve.WithRootDir(doc.Dir()),
		resolve.WithStrictPlugins(ra.Strict),
	)
}

func defaultPluginDir() string {
	return api.GetConfigPath("plugins")
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	return abs, nil
}
