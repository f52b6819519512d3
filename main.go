package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"reelgrip/internal/catalog"
	"reelgrip/internal/config"
	"reelgrip/internal/domain"
	"reelgrip/internal/eventbus"
	"reelgrip/internal/logging"
	"reelgrip/internal/ui"
)

func main() {
	// Parse command line arguments
	var (
		configPath string
		dbPath     string
		category   string
		importPath string
		logPath    string
		memory     bool
		debug      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config.toml")
	flag.StringVar(&dbPath, "db", "", "Path to the catalog database (overrides database_path)")
	flag.StringVar(&category, "category", "", "Category to open with: popular, top_rated, upcoming, now_playing")
	flag.StringVar(&importPath, "import", "", "Import a catalog file (.csv, .json, .yaml) before starting")
	flag.StringVar(&logPath, "log", "", "Log file (default: reelgrip.log in the state directory)")
	flag.BoolVar(&memory, "memory", false, "Keep the catalog in memory instead of SQLite")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if logPath == "" {
		logPath = filepath.Join(config.StateDir(), logging.DefaultFile)
	}
	logger, closeLog, err := logging.Init(logPath, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
		logger = zerolog.Nop()
		closeLog = func() error { return nil }
	}
	defer closeLog()

	if err := run(logger, options{
		configPath: configPath,
		dbPath:     dbPath,
		category:   category,
		importPath: importPath,
		memory:     memory,
	}); err != nil {
		logger.Error().Err(err).Msg("reelgrip failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

type options struct {
	configPath string
	dbPath     string
	category   string
	importPath string
	memory     bool
}

func run(logger zerolog.Logger, opts options) error {
	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New(logger)
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(opts.configPath, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		return err
	}
	logger.Info().Str("path", configSvc.Path()).Msg("config loaded")

	if opts.dbPath != "" {
		cfg.DatabasePath = opts.dbPath
	}
	filter, err := cfg.Filter()
	if err != nil {
		return err
	}
	if opts.category != "" {
		c, err := domain.ParseCategory(opts.category)
		if err != nil {
			return err
		}
		filter = filter.WithCategory(c)
	}

	store, closeStore, err := openStore(cfg, opts.memory)
	if err != nil {
		return err
	}
	defer closeStore()

	fwd := ui.NewForwarder(ui.DefaultForwardBuffer, logger)
	forward := func(e eventbus.DomainEvent) {
		fwd.Send(ui.EventMsg{Event: e})
	}
	bus.Subscribe(eventbus.EventLoadFailed, forward)
	bus.Subscribe(eventbus.EventCatalogImported, forward)
	bus.Subscribe(eventbus.EventConfigSaved, forward)
	bus.Subscribe(eventbus.EventScopeTornDown, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ScopeTornDownEvent); ok {
			logger.Debug().
				Str("scope", event.ScopeID).
				Str("name", event.Name).
				Int("cancelled", event.Cancelled).
				Msg("scope torn down")
		}
	})

	if opts.importPath != "" {
		n, err := catalog.ImportFile(ctx, store, opts.importPath, bus)
		if err != nil {
			return err
		}
		logger.Info().Str("file", opts.importPath).Int("movies", n).Msg("catalog imported")
	}

	model := ui.NewModel(ui.Options{
		Store:     store,
		Bus:       bus,
		Config:    cfg,
		Logger:    logger,
		Forwarder: fwd,
		Filter:    filter,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	go fwd.Run(ctx, p.Send)

	logger.Info().Stringer("filter", filter).Msg("starting UI")
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running program: %w", err)
	}
	logger.Info().Msg("UI exited normally")
	return nil
}

// openStore opens the catalog named by cfg behind the LRU cache
func openStore(cfg *config.Config, memory bool) (catalog.Store, func() error, error) {
	rules := catalog.DefaultRules()
	rules.TopRatedMinVotes = cfg.TopRatedMinVotes

	var (
		backing catalog.Store
		closeFn = func() error { return nil }
	)
	if memory {
		backing = catalog.NewMemoryStore(rules)
	} else {
		db, err := catalog.OpenSQLite(cfg.DatabasePath, rules)
		if err != nil {
			return nil, nil, err
		}
		backing = db
		closeFn = db.Close
	}

	cached, err := catalog.NewCachedStore(backing, cfg.CacheSize)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return cached, closeFn, nil
}
