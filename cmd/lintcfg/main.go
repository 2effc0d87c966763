package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"

	"github.com/macropower/lintcfg/internal/cli"
	"github.com/macropower/lintcfg/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	shutdown, err := cli.SetupTracing(ctx)
	if err != nil {
		slog.Error("setup tracing", slog.Any("err", err))
	}

	err = fang.Execute(ctx, cli.NewRootCmd(),
		fang.WithVersion(version.GetVersion()),
		fang.WithCommit(version.Revision),
		fang.WithErrorHandler(cli.ErrorHandler),
		fang.WithColorSchemeFunc(cli.ColorScheme),
	)

	if shutdown != nil {
		shutdownErr := shutdown(context.WithoutCancel(ctx))
		if shutdownErr != nil {
			slog.Error("shutdown tracing", slog.Any("err", shutdownErr))
		}
	}

	stop()

	if err != nil {
		os.Exit(1)
	}
}
