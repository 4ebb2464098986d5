package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/f1load/internal/config"
	"github.com/JonMunkholm/f1load/internal/core"
	_ "github.com/JonMunkholm/f1load/internal/core/tables" // Register all entities
	"github.com/JonMunkholm/f1load/internal/logging"
	"github.com/JonMunkholm/f1load/internal/pipeline"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if code := execute(ctx, newRootCmd(cfg)); code != 0 {
		stop()
		os.Exit(code)
	}
}

// loggedError marks a failure that run has already logged in full.
type loggedError struct{ err error }

func (e *loggedError) Error() string { return e.err.Error() }
func (e *loggedError) Unwrap() error { return e.err }

// execute runs cmd and returns the process exit code. Usage errors from
// cobra are logged here since SilenceErrors keeps cobra from printing them.
func execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var logged *loggedError
	if !errors.As(err, &logged) {
		slog.Error("f1load failed", "error", err)
	}
	return 1
}

// args are the positional arguments of a load.
type args struct {
	Round  int
	Sprint bool
}

func parseArgs(raw []string) (args, error) {
	round, err := strconv.Atoi(raw[0])
	if err != nil || round < 1 {
		return args{}, errors.Errorf("round must be a positive integer, got %q", raw[0])
	}
	sprint, err := strconv.ParseBool(raw[1])
	if err != nil {
		return args{}, errors.Errorf("sprint must be true or false, got %q", raw[1])
	}
	return args{Round: round, Sprint: sprint}, nil
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "f1load ROUND SPRINT",
		Short: "Load one race weekend's CSV files into the F1 database",
		Long: "f1load reads the result files of one race weekend of the current season and\n" +
			"inserts them in a single transaction. Either every file is loaded or nothing is.\n" +
			"SPRINT (true or false) also loads the sprint files.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, raw []string) error {
			a, err := parseArgs(raw)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, a)
		},
	}

	cmd.Flags().StringVar(&cfg.Loader.CSVFolder, "csv-dir", cfg.Loader.CSVFolder,
		"directory holding the input files (env F1_SQL_UPDATER_CSV_FOLDER)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, a args) error {
	ctx = logging.WithRunID(ctx, "")
	logger := logging.FromContext(ctx)

	logger.Info("configuration loaded", "config", cfg.String())
	logger.Debug("entities registered", "count", core.Count())

	pool, err := pgxpool.New(ctx, cfg.Database.ConnString())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return &loggedError{err}
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err, "code", core.Classify(err).Code)
		return &loggedError{err}
	}

	year := time.Now().Year()
	raceID, err := core.RaceIDByRound(ctx, pool, a.Round, year)
	if err != nil {
		logger.Error(core.Describe(err), "error", err, "round", a.Round, "year", year)
		return &loggedError{err}
	}

	loader := pipeline.NewLoader(pool, cfg.Loader.CSVFolder)
	report, runErr := loader.Run(ctx, pipeline.Params{RaceID: raceID, Sprint: a.Sprint})

	if path := cfg.Loader.MetricsTextfile; path != "" {
		if err := loader.Metrics().WriteTextfile(path); err != nil {
			logger.Warn("failed to write metrics", "error", err)
		}
	}

	if runErr != nil {
		logger.Error(core.Describe(runErr), "round", a.Round, "race_id", raceID)
		return &loggedError{runErr}
	}

	logger.Info("race loaded",
		"round", a.Round,
		"year", year,
		"race_id", raceID,
		"inserted", report.Inserted(),
		"skipped", report.Skipped(),
	)
	return nil
}
