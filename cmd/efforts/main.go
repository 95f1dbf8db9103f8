package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"efforts/internal/bootstrap"
	"efforts/internal/platform/config"
	"efforts/internal/platform/timefmt"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	vault   string
	config  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "efforts",
		Short:         "Focus session tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.vault, "vault", ".", "Obsidian vault path")
	root.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default <vault>/.efforts/config.yaml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log to stderr instead of the log file")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newWatchCmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newStatsCmd(flags))
	root.AddCommand(newExportCmd(flags))
	return root
}

func loadApp(flags *rootFlags, opts bootstrap.Options) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.vault, flags.config)
	if err != nil {
		return nil, err
	}
	opts.LogToFile = !flags.verbose
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	return bootstrap.New(cfg, opts)
}

// withApp runs fn against a freshly wired application and releases it after.
func withApp(flags *rootFlags, fn func(context.Context, *bootstrap.App) error) error {
	app, err := loadApp(flags, bootstrap.Options{})
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(context.Background(), app)
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			// The TUI owns the screen, so logs always go to the file.
			app, err := loadApp(&rootFlags{vault: flags.vault, config: flags.config}, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return bootstrap.RunTUI(ctx, app)
		},
	}
}

func newWatchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the active session timer and ring when it runs over",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			app, err := loadApp(flags, bootstrap.Options{BellOutput: out})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := app.Follow(ctx); err != nil {
				return err
			}

			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				snap := app.Timer.Snapshot()
				if snap.Title == "" {
					_, _ = fmt.Fprint(out, "\rno active session\033[K")
				} else {
					state := "running"
					if !snap.Running {
						state = "ended, waiting for a rating"
					} else if snap.IsOvertime {
						state = "overtime"
					}
					_, _ = fmt.Fprintf(out, "\r%s  %s / %s  %.0f%%  %s\033[K", snap.Title, snap.ElapsedText, snap.RemainingText, snap.Progress, state)
				}
				select {
				case <-ctx.Done():
					_, _ = fmt.Fprintln(out)
					return nil
				case <-app.Alerts.C():
					// Bell notifier already printed the alert.
					_, _ = fmt.Fprintln(out)
				case <-ticker.C:
				}
			}
		},
	}
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "stats [day|week|month]...",
		Short:     "Compare focus statistics with the previous period",
		ValidArgs: []string{"day", "week", "month"},
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				periods, err := app.StatsCLI.Compare(ctx, args...)
				if err != nil {
					return err
				}
				for i, p := range periods {
					if i > 0 {
						_, _ = fmt.Fprintln(cmd.OutOrStdout())
					}
					printComparison(cmd.OutOrStdout(), p)
				}
				return nil
			})
		},
	}
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	export := &cobra.Command{Use: "export", Short: "Render sessions as markdown"}

	var write bool
	day := &cobra.Command{
		Use:   "day [today|yesterday|YYYY-MM-DD]",
		Short: "Render the daily report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				date := ""
				if len(args) == 1 {
					date = args[0]
				}
				out, err := app.SessionCLI.ExportDay(ctx, date, write)
				if err != nil {
					return err
				}
				return printExport(cmd, out.Markdown, out.Path)
			})
		},
	}
	day.Flags().BoolVar(&write, "write", false, "also write the report into the vault")

	session := &cobra.Command{
		Use:   "session <id>",
		Short: "Render one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.ExportSession(ctx, args[0], write)
				if err != nil {
					return err
				}
				return printExport(cmd, out.Markdown, out.Path)
			})
		},
	}
	session.Flags().BoolVar(&write, "write", false, "also write the note into the vault")

	export.AddCommand(day, session)
	return export
}

func printExport(cmd *cobra.Command, markdown, path string) error {
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), markdown); err != nil {
		return err
	}
	if path != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", path)
	}
	return nil
}

func formatDate(t time.Time) string {
	return timefmt.Date(t) + " " + timefmt.HourMinute(t)
}
