package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gocomet/ride-ledger/internal/config"
	"github.com/gocomet/ride-ledger/internal/service/export"
	"github.com/gocomet/ride-ledger/internal/service/ledger"
	"github.com/gocomet/ride-ledger/internal/service/pricing"
	"github.com/gocomet/ride-ledger/internal/service/reporting"
	"github.com/gocomet/ride-ledger/internal/storage/postgres"
	"github.com/gocomet/ride-ledger/pkg/cache"
	"github.com/gocomet/ride-ledger/pkg/database"
	apperrors "github.com/gocomet/ride-ledger/pkg/errors"
	"github.com/gocomet/ride-ledger/pkg/logger"
	"github.com/gocomet/ride-ledger/pkg/monitoring"
	"github.com/redis/go-redis/v9"
)

const usageText = `Usage: ledger [-config FILE] <command> [flags]

Commands:
  migrate            create the ledger tables if they do not exist
  seed               load the demo passengers, drivers and rides into an empty ledger
  report [-json]     print the aggregate reports
  export [-out DIR]  write data.json, data.csv, data.xml and data.yaml
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	global := flag.NewFlagSet("ledger", flag.ContinueOnError)
	configPath := global.String("config", "", "optional YAML config file (default $"+config.PathEnv+")")
	global.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}
	command, commandArgs := global.Arg(0), global.Args()[1:]
	switch command {
	case "migrate", "seed", "report", "export":
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		global.Usage()
		return 2
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Printf("Failed to create logger: %v", err)
		return 1
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize", logger.Err(err))
		return 1
	}
	defer app.Close()

	appLogger.Debug("Running command", logger.String("command", command))

	switch command {
	case "migrate":
		err = app.migrate(ctx)
	case "seed":
		err = app.seed(ctx)
	case "report":
		err = app.report(ctx, commandArgs)
	case "export":
		err = app.export(ctx, commandArgs)
	}

	if err != nil {
		return app.fail(command, err)
	}
	return 0
}

// app owns the process-wide resources shared by every command
type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	db       *sql.DB
	redis    *redis.Client
	nr       *monitoring.NewRelicApp
	ledger   *ledger.Service
	reports  *reporting.Service
	exporter *export.Service
}

func newApp(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: appLogger}

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
		nrApp = monitoring.Disabled()
	} else if nrApp.IsEnabled() {
		appLogger.Info("New Relic APM initialized", logger.String("app_name", cfg.NewRelic.AppName))
	}
	a.nr = nrApp

	// Initialize PostgreSQL
	db, err := database.NewPostgresDB(ctx, database.Config{
		Driver:      cfg.Database.Driver,
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		User:        cfg.Database.User,
		Password:    cfg.Database.Password,
		DBName:      cfg.Database.Name,
		SSLMode:     cfg.Database.SSLMode,
		MaxConns:    cfg.Database.MaxConnections,
		MaxIdle:     cfg.Database.MaxIdleConns,
		MaxLifetime: cfg.Database.MaxLifetime,
	})
	if err != nil {
		a.Close()
		return nil, apperrors.Store("database.connect", err)
	}
	a.db = db
	appLogger.Debug("Connected to PostgreSQL",
		logger.String("driver", cfg.Database.Driver),
		logger.String("database", cfg.Database.Name),
	)

	// Initialize Redis; the ledger works without the report cache
	var reportCache *cache.ReportCache
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cache.Config{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			MaxRetries:  cfg.Redis.MaxRetries,
			PoolSize:    cfg.Redis.PoolSize,
			MinIdleConn: cfg.Redis.MinIdleConn,
			DialTimeout: cfg.Redis.DialTimeout,
			ReadTimeout: cfg.Redis.ReadTimeout,
		})
		if err != nil {
			appLogger.Warn("Redis unavailable, reports will not be cached", logger.Err(err))
		} else {
			a.redis = client
			reportCache = cache.NewReportCache(client, cfg.Cache.Prefix, cfg.Cache.SummaryTTL)
		}
	}

	var (
		invalidator  ledger.Invalidator
		summaryCache reporting.Cache
	)
	if reportCache != nil {
		invalidator = reportCache
		summaryCache = reportCache
	}

	rides := postgres.NewRideRepository(db)

	a.ledger = ledger.NewService(ledger.Repositories{
		Passengers: postgres.NewPassengerRepository(db),
		Drivers:    postgres.NewDriverRepository(db),
		Rides:      rides,
		Tickets:    postgres.NewSupportRepository(db),
	}, invalidator, nrApp, appLogger)

	tiers := pricing.Config{EconomyMax: cfg.Pricing.EconomyMax, ComfortMax: cfg.Pricing.ComfortMax}
	a.reports = reporting.NewService(db, pricing.NewClassifier(tiers), summaryCache, nrApp, appLogger,
		reporting.Config{HighSpenderThreshold: cfg.Pricing.HighSpenderThreshold})

	a.exporter = export.NewService(rides, appLogger, nrApp)

	return a, nil
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	if a.db != nil {
		stats := a.db.Stats()
		a.nr.RecordDatabasePoolStats(stats.OpenConnections, stats.InUse, stats.Idle)
	}
	if a.redis != nil {
		a.logger.Debug("Redis pool stats", logger.Any("stats", cache.GetClientStats(a.redis)))
		if err := cache.Close(a.redis); err != nil {
			a.logger.Warn("Failed to close Redis client", logger.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Failed to close database", logger.Err(err))
		}
	}
	a.nr.Shutdown(10 * time.Second)
}

// fail logs the error with its kind and returns the process exit code
func (a *app) fail(command string, err error) int {
	appErr := apperrors.GetAppError(err)
	a.logger.Error("Command failed",
		logger.String("command", command),
		logger.String("kind", string(appErr.Kind)),
		logger.String("op", appErr.Op),
		logger.String("message", appErr.Message),
		logger.Err(err),
	)
	fmt.Fprintf(os.Stderr, "%s: %s\n", appErr.Kind, appErr.Message)
	return 1
}
