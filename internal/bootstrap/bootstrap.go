package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	sessioninadapter "efforts/internal/modules/session/adapter/in"
	sessionoutadapter "efforts/internal/modules/session/adapter/out"
	sessionin "efforts/internal/modules/session/port/in"
	sessionout "efforts/internal/modules/session/port/out"
	sessionservice "efforts/internal/modules/session/service"
	sessionusecase "efforts/internal/modules/session/usecase"
	statsinadapter "efforts/internal/modules/stats/adapter/in"
	statsin "efforts/internal/modules/stats/port/in"
	statsservice "efforts/internal/modules/stats/service"
	statsusecase "efforts/internal/modules/stats/usecase"
	timerinadapter "efforts/internal/modules/timer/adapter/in"
	timeroutadapter "efforts/internal/modules/timer/adapter/out"
	timerin "efforts/internal/modules/timer/port/in"
	timerservice "efforts/internal/modules/timer/service"
	"efforts/internal/platform/clock"
	"efforts/internal/platform/config"
	"efforts/internal/platform/id"
	"efforts/internal/platform/logging"
	"efforts/internal/platform/metrics"
	"efforts/internal/platform/schedule"
	uiapp "efforts/internal/ui/app"
)

// Options control where a process sends its side output.
type Options struct {
	// LogToFile writes logs to logging.file; used while the TUI owns the screen.
	LogToFile bool
	// LogOutput receives logs when LogToFile is false. Defaults to stderr.
	LogOutput io.Writer
	// BellOutput receives terminal bell notifications when notify.bell is set.
	BellOutput io.Writer
}

type App struct {
	Config config.Config
	Logger zerolog.Logger
	Clock  clock.Clock

	Sessions sessionin.Usecase
	Stats    statsin.Usecase
	Timer    timerin.Usecase
	Alerts   *timeroutadapter.ChannelNotifier
	Registry *prometheus.Registry

	SessionCLI sessioninadapter.CLIHandler
	StatsCLI   statsinadapter.CLIHandler

	feed    *timerinadapter.SessionFeed
	poll    schedule.Handle
	server  *metrics.Server
	closers []func() error
}

const refreshTimeout = 5 * time.Second

type closableStore interface {
	sessionout.SessionStore
	Close() error
}

func New(cfg config.Config, opts Options) (*App, error) {
	app := &App{Config: cfg}

	logOut := opts.LogOutput
	if logOut == nil {
		logOut = os.Stderr
	}
	if opts.LogToFile {
		f, err := logging.OpenFile(cfg.Logging.File)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, f.Close)
		logOut = f
	}
	app.Logger = logging.New(cfg.Logging, logOut)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	weekStart, err := cfg.WeekStart()
	if err != nil {
		return nil, err
	}
	app.Clock = clock.LocalClock{Location: loc}

	store, err := openStore(cfg, loc)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, store.Close)

	var sessions sessionout.SessionStore = store
	if cfg.Cache.Size > 0 {
		cached, err := sessionoutadapter.NewCachedSessionStore(store, cfg.Cache.Size)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		sessions = cached
	}

	app.Registry = prometheus.NewRegistry()
	recorder := sessionoutadapter.NewPrometheusMetrics(app.Registry)

	app.Sessions = sessionusecase.NewInteractor(
		sessionservice.NewSessionService(app.Clock, id.UUID{}, sessions, recorder),
		sessionoutadapter.NewVaultReportWriter(cfg.VaultPath),
		app.Logger,
	)
	app.Stats = statsusecase.NewInteractor(
		statsservice.NewStatsService(app.Clock, sessions, weekStart),
		app.Logger,
	)

	app.Alerts = timeroutadapter.NewChannelNotifier(4)
	notifiers := timeroutadapter.MultiNotifier{timeroutadapter.NewLogNotifier(app.Logger), app.Alerts}
	if cfg.Notify.Bell && opts.BellOutput != nil {
		notifiers = append(notifiers, timeroutadapter.NewBellNotifier(opts.BellOutput))
	}
	app.Timer = timerservice.NewTimer(app.Clock, schedule.TickerScheduler{}, notifiers, app.Logger, timerservice.Config{
		TickInterval:   cfg.Timer.TickInterval,
		ResyncInterval: cfg.Timer.ResyncInterval,
	})

	app.SessionCLI = sessioninadapter.NewCLIHandler(app.Sessions, app.Clock)
	app.StatsCLI = statsinadapter.NewCLIHandler(app.Stats)

	app.Logger.Debug().
		Str("storage", cfg.Storage.Type).
		Int("cache_size", cfg.Cache.Size).
		Str("timezone", loc.String()).
		Msg("application wired")
	return app, nil
}

func openStore(cfg config.Config, loc *time.Location) (closableStore, error) {
	switch cfg.Storage.Type {
	case "redis":
		store, err := sessionoutadapter.OpenRedisSessionStore(cfg.Redis, loc)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return store, nil
	default:
		store, err := sessionoutadapter.NewSQLiteSessionStore(cfg.Storage.Path, loc)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	}
}

// Follow loads persisted state and keeps the timer on the active session
// until Close. The active session is reloaded every resync interval so
// sessions started or finished by other processes are picked up. Long-running
// modes also serve metrics when configured.
func (a *App) Follow(ctx context.Context) error {
	if err := a.Sessions.Init(ctx); err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	if a.feed == nil {
		a.feed = timerinadapter.NewSessionFeed(a.Timer, a.Sessions)
	}
	if a.poll == nil {
		interval := a.Config.Timer.ResyncInterval
		if interval <= 0 {
			interval = time.Minute
		}
		a.poll = schedule.TickerScheduler{}.Every(interval, func() {
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()
			if err := a.Refresh(ctx); err != nil {
				a.Logger.Warn().Err(err).Msg("reload active session failed")
			}
		})
	}
	if a.Config.Metrics.Listen != "" && a.server == nil {
		a.server = metrics.NewServer(a.Config.Metrics.Listen, a.Registry, a.Logger)
		a.server.Start()
	}
	return nil
}

// Refresh reloads the active session from storage. Subscribers, including
// the timer feed, see the result.
func (a *App) Refresh(ctx context.Context) error {
	if _, _, err := a.Sessions.LoadActiveSession(ctx); err != nil {
		return fmt.Errorf("reload active session: %w", err)
	}
	return nil
}

// Close stops background work and releases storage. It is safe to call twice.
func (a *App) Close() error {
	var errs []error
	if a.poll != nil {
		a.poll.Stop()
		a.poll = nil
	}
	if a.feed != nil {
		a.feed.Close()
		a.feed = nil
	}
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, a.server.Stop(ctx))
		cancel()
		a.server = nil
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(ctx context.Context, app *App) error {
	if err := app.Follow(ctx); err != nil {
		return err
	}
	model := uiapp.NewModel(app.Sessions, app.Stats, app.Timer, app.Alerts.C(), app.Clock)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
