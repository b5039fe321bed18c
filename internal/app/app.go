package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/urielniazov/pokedex/internal/browse"
	"github.com/urielniazov/pokedex/internal/config"
	"github.com/urielniazov/pokedex/internal/pokeapi"
	"github.com/urielniazov/pokedex/internal/prefs"
	"github.com/urielniazov/pokedex/internal/query"
	"github.com/urielniazov/pokedex/internal/state"
	"github.com/urielniazov/pokedex/internal/ui"
)

const pingTimeout = 3 * time.Second

// Options configure the pokedex application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pokedex/prefs.toml
	APIURL     string // overrides api_url when set
	Query      string // seeds the address bar, e.g. "type=Fire&page=2"
	Theme      string // light or dark; empty picks the stored or detected theme
	NoSession  bool   // neither restore nor save the session file
	Captured   bool   // print captured names to Out and exit
	Out        io.Writer
}

// Run boots pokedex until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	// A missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}

	logger, err := initLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("config loaded",
		zap.String("api_url", cfg.APIURL),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("search_debounce", cfg.SearchDebounce),
	)

	if cfg.OTLPEndpoint != "" {
		shutdown, err := initTracer(ctx, cfg.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	if cfg.MetricsAddr != "" {
		stop := startMetricsServer(cfg.MetricsAddr, logger)
		defer stop()
	}

	client, err := pokeapi.NewClient(cfg.APIURL,
		pokeapi.WithTimeout(cfg.RequestTimeout),
		pokeapi.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	if err := ensureAPIAvailable(ctx, client); err != nil {
		return err
	}

	if opts.Captured {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		return printCaptured(ctx, client, out)
	}

	seed, err := initialQuery(opts, cfg.SessionFile, logger)
	if err != nil {
		return err
	}
	location := state.NewLocation(seed, state.DefaultHistoryLimit)

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("failed to load preferences", zap.Error(err))
	}
	themeName := resolveTheme(opts.Theme, userPrefs.Theme, lipgloss.HasDarkBackground)

	ctrl := browse.New(browse.Options{
		Store:       location,
		API:         client,
		Clock:       clock.New(),
		QuietPeriod: cfg.SearchDebounce,
		Logger:      logger,
	})
	defer ctrl.Close()

	logger.Info("starting pokedex",
		zap.String("api_url", client.BaseURL()),
		zap.String("query", location.String()),
		zap.String("theme", themeName),
	)

	runErr := ui.Run(ui.Options{
		Context:    ctx,
		Controller: ctrl,
		Location:   location,
		ThemeName:  themeName,
		PrefsPath:  opts.PrefsPath,
		APIURL:     client.BaseURL(),
		Logger:     logger,
	})

	if !opts.NoSession {
		if err := state.SaveSession(cfg.SessionFile, location.Read(), time.Now()); err != nil {
			logger.Warn("failed to save session", zap.String("path", cfg.SessionFile), zap.Error(err))
		}
	}
	return runErr
}

// Pinger is the part of the API client used for the startup check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ensureAPIAvailable fails fast when the catalog API does not answer.
func ensureAPIAvailable(ctx context.Context, api Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := api.Ping(ctx); err != nil {
		return fmt.Errorf("pokemon api unavailable: %w", err)
	}
	return nil
}

// CapturedLister lists captured pokemon names.
type CapturedLister interface {
	FetchCaptured(ctx context.Context) ([]string, error)
}

func printCaptured(ctx context.Context, api CapturedLister, w io.Writer) error {
	names, err := api.FetchCaptured(ctx)
	if err != nil {
		return fmt.Errorf("fetch captured: %w", err)
	}
	if len(names) == 0 {
		_, err = fmt.Fprintln(w, "No Pokémon captured yet.")
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// initialQuery picks the address bar content for a new run: the --query flag,
// else the saved session, else nothing.
func initialQuery(opts Options, sessionFile string, logger *zap.Logger) (query.Params, error) {
	if raw := strings.TrimSpace(opts.Query); raw != "" {
		params, err := query.ParseParams(raw)
		if err != nil {
			return nil, fmt.Errorf("parse --query: %w", err)
		}
		return params, nil
	}
	if opts.NoSession {
		return query.Params{}, nil
	}
	session, params, err := state.LoadSession(sessionFile)
	if err != nil {
		// A corrupt session is not worth refusing to start over.
		logger.Warn("ignoring session file", zap.String("path", sessionFile), zap.Error(err))
		return query.Params{}, nil
	}
	if !session.SavedAt.IsZero() {
		logger.Debug("restored session", zap.String("query", session.Query), zap.Time("saved_at", session.SavedAt))
	}
	return params, nil
}

// resolveTheme prefers the explicit flag, then the stored preference, then
// the terminal background.
func resolveTheme(flagTheme, stored string, hasDark func() bool) string {
	if t := strings.ToLower(strings.TrimSpace(flagTheme)); prefs.ValidTheme(t) {
		return t
	}
	return ui.InitialTheme(stored, hasDark)
}

var errInvalidTheme = errors.New("theme must be light or dark")

// ValidateTheme checks a --theme value. Empty is allowed.
func ValidateTheme(name string) error {
	if name == "" || prefs.ValidTheme(strings.ToLower(strings.TrimSpace(name))) {
		return nil
	}
	return fmt.Errorf("%w, got %q", errInvalidTheme, name)
}
