package util

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/config"
	database "github.com/mpapenbr/openf1-analysis/pkg/db/postgres"
	"github.com/mpapenbr/openf1-analysis/pkg/openf1"
	"github.com/mpapenbr/openf1-analysis/pkg/processing/reconcile"
	"github.com/mpapenbr/openf1-analysis/pkg/processing/score"
	"github.com/mpapenbr/openf1-analysis/pkg/service"
	"github.com/mpapenbr/openf1-analysis/pkg/store"
	"github.com/mpapenbr/openf1-analysis/pkg/store/file"
	"github.com/mpapenbr/openf1-analysis/pkg/store/postgres"
	"github.com/mpapenbr/openf1-analysis/pkg/utils"
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the logger configured by the log flags and makes it
// the process default.
func SetupLogger() (*log.Logger, error) {
	logger, err := newLogger(os.Stderr, parseLogLevel(config.LogLevel, log.InfoLevel))
	if err != nil {
		return nil, err
	}
	log.ResetDefault(logger)
	return logger, nil
}

func newLogger(w io.Writer, level log.Level) (*log.Logger, error) {
	filter, err := log.ParseFilter(config.LogFilter)
	if err != nil {
		return nil, err
	}
	opts := []log.Option{log.WithCaller(true), log.AddCallerSkip(1), filter}
	switch config.LogFormat {
	case "json":
		return log.New(w, level, opts...), nil
	default:
		return log.DevLogger(w, level, opts...), nil
	}
}

// Env bundles the collaborators used by the commands.
type Env struct {
	Fetcher  openf1.Fetcher
	Raw      store.TableStore // fetched tables
	Analyses store.TableStore // analysis results
	closers  []func()
}

func (e *Env) Close() {
	for _, c := range e.closers {
		c()
	}
}

// NewEnv sets up stores and the API client according to the config.
func NewEnv(ctx context.Context) (*Env, error) {
	env := &Env{}
	var clock store.FetchClock
	switch config.Store {
	case config.StoreFile:
		cache := file.New(config.CacheDir)
		env.Raw = cache
		env.Analyses = file.New(config.AnalysisDir)
		clock = cache
	case config.StorePostgres:
		pool, err := connectDB(ctx)
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, pool.Close)
		pg := postgres.New(pool)
		env.Raw, env.Analyses, clock = pg, pg, pg
	default:
		return nil, fmt.Errorf("unknown store %q (use %s or %s)",
			config.Store, config.StoreFile, config.StorePostgres)
	}

	client := openf1.NewClient(
		openf1.WithBaseURL(config.BaseURL),
		openf1.WithTimeout(config.RequestTimeout),
		openf1.WithMinInterval(config.MinRequestInterval),
		openf1.WithMaxRetries(config.MaxRetries),
		openf1.WithFetchClock(clock),
	)
	env.Fetcher = client
	if config.ResponseCacheTTL > 0 {
		env.Fetcher = openf1.NewCachedFetcher(client, config.ResponseCacheTTL)
	}
	return env, nil
}

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	addr := utils.ExtractFromDBURL(config.DB)
	if addr == "" {
		return nil, fmt.Errorf("invalid database url")
	}
	if err = utils.WaitForTCP(ctx, addr, timeout); err != nil {
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	sqlLogger, err := newLogger(os.Stderr, parseLogLevel(config.SQLLogLevel, log.InfoLevel))
	if err != nil {
		return nil, err
	}
	return database.InitWithURL(ctx, config.DB, database.WithTracer(sqlLogger.Named("sql")))
}

// NewAnalyzer creates an analyzer using the configured thresholds.
func NewAnalyzer(env *Env) *service.Analyzer {
	return service.InitAnalyzer(env.Fetcher, env.Analyses,
		service.WithReconciler(reconcile.NewReconciler(
			reconcile.WithKeyMargin(config.KeyMargin))),
		service.WithScorer(score.NewScorer(score.WithThresholds(Thresholds()))),
		service.WithSessionContext(config.SessionContext),
	)
}

func Thresholds() score.Thresholds {
	return score.Thresholds{
		MaxTimeGap:     config.MaxTimeGap,
		MaxSectorGap:   config.MaxSectorGap,
		MinFastSectors: config.MinFastSectors,
		MaxSpeedDelta:  config.MaxSpeedDelta,
		RoundPlaces:    int32(config.RoundPlaces),
	}
}
