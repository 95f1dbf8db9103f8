package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"efforts/internal/bootstrap"
	sessiondto "efforts/internal/modules/session/dto"
	statsdto "efforts/internal/modules/stats/dto"
	"efforts/internal/platform/timefmt"
)

func newSessionCmd(flags *rootFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Focus session lifecycle"}

	var goals string
	var planned int
	start := &cobra.Command{
		Use:   "start --goals <text> --planned <minutes>",
		Short: "Start a focus session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Start(ctx, goals, planned)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session started: %s %q planned=%s at=%s\n", out.ID, out.Title, timefmt.Duration(out.PlannedDuration), formatDate(out.StartTime))
				return nil
			})
		},
	}
	start.Flags().StringVar(&goals, "goals", "", "what this session is for")
	start.Flags().IntVar(&planned, "planned", 25, "planned duration in minutes")

	var newGoals, notes string
	var newPlanned int
	update := &cobra.Command{
		Use:   "update [--goals <text>] [--planned <minutes>] [--notes <text>]",
		Short: "Edit the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var input sessiondto.UpdateInput
			if cmd.Flags().Changed("goals") {
				input.Goals = &newGoals
			}
			if cmd.Flags().Changed("planned") {
				input.PlannedDuration = &newPlanned
			}
			if cmd.Flags().Changed("notes") {
				input.Notes = &notes
			}
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Update(ctx, input)
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	update.Flags().StringVar(&newGoals, "goals", "", "new goals")
	update.Flags().IntVar(&newPlanned, "planned", 0, "new planned duration in minutes")
	update.Flags().StringVar(&notes, "notes", "", "session notes")

	end := &cobra.Command{
		Use:   "end",
		Short: "Stop timing the active session; rate it afterwards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.End(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session ended: %s actual=%s overtime=%s\n", out.ID, timefmt.Duration(out.ActualDuration), timefmt.Duration(out.Overtime))
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "rate it with: efforts session rate <poor|normal|great|deep>")
				return nil
			})
		},
	}

	var rateNotes string
	rate := &cobra.Command{
		Use:       "rate <poor|normal|great|deep>",
		Short:     "Rate and complete the active session",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"poor", "normal", "great", "deep"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Rate(ctx, args[0], rateNotes)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session completed: %s quality=%s points=%d\n", out.ID, qualityColor(out.Quality).Sprint(out.Quality), out.Points)
				return nil
			})
		},
	}
	rate.Flags().StringVar(&rateNotes, "notes", "", "closing notes")

	cancel := &cobra.Command{
		Use:   "cancel",
		Short: "Abandon the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Cancel(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session cancelled: %s\n", out.ID)
				return nil
			})
		},
	}

	active := &cobra.Command{
		Use:   "active",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Active(ctx)
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	today := &cobra.Command{
		Use:   "today",
		Short: "List today's completed sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				sessions, err := app.SessionCLI.Today(ctx)
				if err != nil {
					return err
				}
				printTable(cmd.OutOrStdout(), sessions)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total: %s, %d points\n", timefmt.Duration(app.Sessions.TotalMinutesToday()), app.Sessions.TotalPointsToday())
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				sessions, err := app.SessionCLI.List(ctx)
				if err != nil {
					return err
				}
				printTable(cmd.OutOrStdout(), sessions)
				return nil
			})
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Get(ctx, args[0])
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a finished session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.SessionCLI.Delete(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session deleted: %s\n", args[0])
				return nil
			})
		},
	}

	session.AddCommand(start, update, end, rate, cancel, active, today, list, get, del)
	return session
}

func printSession(w io.Writer, s sessiondto.SessionOutput) {
	_, _ = fmt.Fprintf(w, "id:       %s\n", s.ID)
	_, _ = fmt.Fprintf(w, "title:    %s\n", s.Title)
	_, _ = fmt.Fprintf(w, "status:   %s\n", s.Status)
	_, _ = fmt.Fprintf(w, "started:  %s\n", formatDate(s.StartTime))
	if s.EndTime != nil {
		_, _ = fmt.Fprintf(w, "ended:    %s\n", formatDate(*s.EndTime))
	}
	_, _ = fmt.Fprintf(w, "planned:  %s\n", timefmt.Duration(s.PlannedDuration))
	_, _ = fmt.Fprintf(w, "actual:   %s\n", timefmt.Duration(s.ActualDuration))
	if s.Overtime > 0 {
		_, _ = fmt.Fprintf(w, "overtime: %s\n", timefmt.Duration(s.Overtime))
	}
	if s.Quality != "" {
		_, _ = fmt.Fprintf(w, "quality:  %s (%d points)\n", qualityColor(s.Quality).Sprint(s.Quality), s.Points)
	}
	if s.Goals != "" {
		_, _ = fmt.Fprintf(w, "goals:    %s\n", s.Goals)
	}
	if s.Notes != "" {
		_, _ = fmt.Fprintf(w, "notes:    %s\n", s.Notes)
	}
}

func printTable(w io.Writer, sessions []sessiondto.SessionOutput) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(w, "no sessions")
		return
	}
	for _, s := range sessions {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID, formatDate(s.StartTime), s.Status, timefmt.Duration(s.ActualDuration),
			qualityColor(s.Quality).Sprint(orDash(s.Quality)), s.Points, s.Title)
	}
}

func printComparison(w io.Writer, c statsdto.ComparisonOutput) {
	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(w, "%s  %s → %s\n", c.Period, timefmt.Date(c.CurrentRange.Start), timefmt.Date(c.CurrentRange.End))
	row := func(label, value string, change float64) {
		_, _ = fmt.Fprintf(w, "  %-12s %-10s %s\n", label, value, changeColor(change).Sprint(timefmt.Percent(change)))
	}
	row("sessions", fmt.Sprint(c.Current.TotalSessions), c.Change.TotalSessions)
	row("focus", timefmt.Duration(c.Current.TotalFocusTime), c.Change.TotalFocusTime)
	row("points", fmt.Sprint(c.Current.TotalPoints), c.Change.TotalPoints)
	row("avg length", fmt.Sprintf("%.1fm", c.Current.AverageSessionLength), c.Change.AverageSessionLength)
	for _, q := range []string{"deep", "great", "normal", "poor"} {
		_, _ = fmt.Fprintf(w, "  %-12s %d\n", qualityColor(q).Sprint(q), c.Current.QualityDistribution[q])
	}
}

func qualityColor(q string) *color.Color {
	switch q {
	case "deep":
		return color.New(color.FgMagenta, color.Bold)
	case "great":
		return color.New(color.FgGreen)
	case "normal":
		return color.New(color.FgYellow)
	case "poor":
		return color.New(color.FgRed)
	}
	return color.New(color.Faint)
}

func changeColor(pct float64) *color.Color {
	switch {
	case pct > 0:
		return color.New(color.FgGreen)
	case pct < 0:
		return color.New(color.FgRed)
	}
	return color.New(color.Faint)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
