// Command usersdb is an interactive menu over a users table kept in an
// embedded SQLite file.
//
// Settings come from built-in defaults, usersdb.yml and .env in the -config
// directory, USERSDB_* environment variables and finally flags.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/arllen133/userstore"
	"github.com/arllen133/userstore/internal/config"
	"github.com/arllen133/userstore/internal/shell"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "usersdb: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	version := flag.Bool("version", false, "Print version and exit")
	configDir := flag.String("config", ".", "Directory holding usersdb.yml and .env")
	dbPath := flag.String("db", "", "Path of the SQLite database file")
	driver := flag.String("driver", "", "SQLite driver: sqlite3 (cgo) or sqlite (pure Go)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logQueries := flag.Bool("log-queries", false, "Log every statement at debug level")
	slowQuery := flag.Duration("slow-query", 0, "Warn about statements slower than this")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}
	if *version {
		printVersion()
		return nil
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.Database = *dbPath
		case "driver":
			cfg.Driver = *driver
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-queries":
			cfg.LogQueries = *logQueries
		case "slow-query":
			cfg.SlowQueryThreshold = *slowQuery
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	dialect, err := userstore.DialectFor(cfg.Driver)
	if err != nil {
		return err
	}
	store, err := userstore.Open(ctx, cfg.Database, dialect,
		userstore.WithLogger(logger),
		userstore.WithQueryLogging(cfg.LogQueries),
		userstore.WithSlowQueryThreshold(cfg.SlowQueryThreshold),
		userstore.WithDefaultTracer(),
		userstore.WithDefaultMeter(),
	)
	if err != nil {
		logger.Error("cannot open database", "path", cfg.Database, "err", err)
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close failed", "err", err)
		}
	}()
	logger.Info("connection established", "path", cfg.Database, "driver", dialect.DriverName())

	start := time.Now()
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("cannot create users table", "err", err)
		return err
	}
	logger.Debug("schema ready", "took", time.Since(start).Round(time.Microsecond))

	return shell.New(store, os.Stdin, os.Stdout, logger).Run(ctx)
}

func printVersion() {
	version, goVersion := "unknown", "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
		if v := info.Main.Version; v != "" && v != "(devel)" {
			version = v
		}
	}
	fmt.Printf("usersdb %s\n", version)
	fmt.Printf("  Go version: %s\n", goVersion)
}
