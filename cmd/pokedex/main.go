package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/urielniazov/pokedex/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet("pokedex", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path (default ~/.config/pokedex/config.toml)")
	apiURL := fs.String("api", "", "catalog API base URL (overrides api_url)")
	seed := fs.String("query", "", `initial query, e.g. "type=Fire&page=2"`)
	theme := fs.String("theme", "", "color theme: light or dark")
	captured := fs.Bool("captured", false, "print captured pokemon and exit")
	noSession := fs.Bool("no-session", false, "do not restore or save the last query")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "pokedex: %v\n", err)
		return 2
	}

	if err := app.ValidateTheme(*theme); err != nil {
		fmt.Fprintf(os.Stderr, "pokedex: %v\n", err)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		APIURL:     *apiURL,
		Query:      *seed,
		Theme:      *theme,
		Captured:   *captured,
		NoSession:  *noSession,
		Out:        os.Stdout,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "pokedex: %v\n", err)
		return 1
	}
	return 0
}
