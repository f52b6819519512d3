// Command reelctl administers the reelgrip catalog from the shell.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"reelgrip/internal/catalog"
	"reelgrip/internal/config"
	"reelgrip/internal/domain"
	"reelgrip/internal/eventbus"
	"reelgrip/internal/logging"
)

const usage = `usage: reelctl [--config path] [--db path] [--debug] <command> [args]

commands:
  import <file>                      import a .csv (MovieLens), .json or .yaml catalog
  list [--category c] [--query q] [--genre g] [--year y] [--limit n]
                                     list movies the way the TUI would
  show <id>                          print one movie
`

func main() {
	var (
		configPath string
		dbPath     string
		debug      bool
	)
	flags := flag.NewFlagSet("reelctl", flag.ExitOnError)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flags.StringVar(&configPath, "config", "", "Path to config.toml")
	flags.StringVar(&dbPath, "db", "", "Path to the catalog database")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	_ = flags.Parse(os.Args[1:])

	logger := logging.Console(debug)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, configPath, dbPath, flags.Args(), os.Stdout); err != nil {
		logger.Error().Err(err).Msg("reelctl failed")
		cancel()
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid usage")

func run(ctx context.Context, logger zerolog.Logger, configPath, dbPath string, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errUsage
	}

	cfg, err := config.NewConfigService(configPath).Load()
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	rules := catalog.DefaultRules()
	rules.TopRatedMinVotes = cfg.TopRatedMinVotes
	store, err := catalog.OpenSQLite(cfg.DatabasePath, rules)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Debug().Str("db", cfg.DatabasePath).Msg("catalog opened")

	switch cmd, rest := args[0], args[1:]; cmd {
	case "import":
		return runImport(ctx, logger, store, rest)
	case "list":
		return runList(ctx, store, cfg, rest, out)
	case "show":
		return runShow(ctx, store, rest, out)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func runImport(ctx context.Context, logger zerolog.Logger, store catalog.Store, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: import takes one file", errUsage)
	}

	bus := eventbus.New(logger)
	defer bus.Close()
	bus.Subscribe(eventbus.EventCatalogImported, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.CatalogImportedEvent); ok {
			logger.Info().Str("source", event.Source).Int("movies", event.Count).Msg("imported")
		}
	})

	_, err := catalog.ImportFile(ctx, store, args[0], bus)
	return err
}

func runList(ctx context.Context, store catalog.Store, cfg *config.Config, args []string, out io.Writer) error {
	filter, err := cfg.Filter()
	if err != nil {
		return err
	}

	var (
		category string
		query    string
		genre    string
		year     int
		limit    int
	)
	flags := flag.NewFlagSet("list", flag.ContinueOnError)
	flags.StringVar(&category, "category", string(filter.Category), "popular, top_rated, upcoming or now_playing")
	flags.StringVar(&query, "query", "", "Title search")
	flags.StringVar(&genre, "genre", filter.Genre, "Only movies of this genre")
	flags.IntVar(&year, "year", filter.Year, "Only movies released this year")
	flags.IntVar(&limit, "limit", 20, "Maximum number of movies")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	c, err := domain.ParseCategory(category)
	if err != nil {
		return err
	}
	filter = domain.Filter{Category: c, Genre: genre, Year: year}

	var movies []domain.MovieSummary
	if q := strings.TrimSpace(query); q != "" {
		movies, err = store.SearchMovies(ctx, q, filter, limit)
	} else {
		movies, err = store.ListMovies(ctx, filter, limit)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tYEAR\tRATING\tVOTES")
	for _, m := range movies {
		released := ""
		if y := m.Year(); y != 0 {
			released = strconv.Itoa(y)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%d\n", m.ID, m.Title, released, m.VoteAverage, m.VoteCount)
	}
	return w.Flush()
}

func runShow(ctx context.Context, store catalog.Store, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: show takes one id", errUsage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: bad id %q", errUsage, args[0])
	}

	m, err := store.GetMovie(ctx, id)
	if err != nil {
		return fmt.Errorf("movie %d: %w", id, err)
	}

	fmt.Fprintf(out, "%s", m.Title)
	if y := m.Year(); y != 0 {
		fmt.Fprintf(out, " (%d)", y)
	}
	fmt.Fprintln(out)
	if m.Tagline != "" {
		fmt.Fprintln(out, m.Tagline)
	}
	fmt.Fprintf(out, "Released: %s  Rating: %.1f (%d votes)  Runtime: %d min\n",
		orDash(m.ReleaseDate), m.VoteAverage, m.VoteCount, m.Runtime)

	names := func(n int, name func(int) string) string {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = name(i)
		}
		return orDash(strings.Join(parts, ", "))
	}
	fmt.Fprintf(out, "Genres: %s\n", names(len(m.Genres), func(i int) string { return m.Genres[i].Name }))
	fmt.Fprintf(out, "Production: %s\n", names(len(m.ProductionCompanies), func(i int) string { return m.ProductionCompanies[i].Name }))
	fmt.Fprintf(out, "Languages: %s\n", names(len(m.SpokenLanguages), func(i int) string { return m.SpokenLanguages[i].Name }))
	if m.Overview != "" {
		fmt.Fprintf(out, "\n%s\n", m.Overview)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
