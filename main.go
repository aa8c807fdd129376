// ahkguide classifies AutoHotkey v2 scripts by category, difficulty tier and
// demonstrated concepts, and builds a documented training library from them.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phobologic/ahkguide/internal/config"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// app carries state shared by every subcommand of one invocation.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	verbose    bool
	projectDir string
	logger     *slog.Logger
	settings   *config.Settings
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "ahkguide",
		Short: "Classify AutoHotkey v2 scripts and build a training library",
		Long: `ahkguide analyzes AutoHotkey v2 scripts, files each one under
<training>/<category>/<tier>/ with a JSON metadata sidecar, and generates
markdown documentation for the resulting library.

Settings are resolved from flags, then AHKGUIDE_* environment variables (a
.env file in the project directory is read as a fallback), then
.ahkguide.yaml in the project directory, then built-in defaults.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

			s, err := config.LoadSettings(a.projectDir)
			if err != nil {
				return err
			}
			a.settings = s
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("ahkguide {{.Version}}\n")

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.projectDir, "project", ".", "directory holding .ahkguide.yaml and .env")

	root.AddCommand(
		newScrapeCmd(a),
		newAnalyzeCmd(a),
		newDocsCmd(a),
		newWatchCmd(a),
		newInitCmd(a),
		newVersionCmd(a),
	)
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, _ = fmt.Fprintf(a.stdout, "ahkguide %s\n", version)
			return nil
		},
	}
}
