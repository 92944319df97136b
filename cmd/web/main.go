package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/myrjola/trainplan/internal/envstruct"
	"github.com/myrjola/trainplan/internal/errors"
	"github.com/myrjola/trainplan/internal/flightrecorder"
	"github.com/myrjola/trainplan/internal/logging"
	"github.com/myrjola/trainplan/internal/sqlite"
	"github.com/myrjola/trainplan/internal/workout"
	"github.com/yuin/goldmark"
)

type application struct {
	logger         *slog.Logger
	templateFS     fs.FS
	markdown       goldmark.Markdown
	workoutService *workout.Service
	traces         *flightrecorder.Recorder
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"TRAINPLAN_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"TRAINPLAN_SQLITE_URL" envDefault:"./trainplan.sqlite3"`
	// TemplatePath is the path to the directory containing the HTML templates.
	TemplatePath string `env:"TRAINPLAN_TEMPLATE_PATH" envDefault:""`
	// CatalogDir optionally replaces the embedded catalog with exercises.yaml and programs.yaml from a directory.
	CatalogDir string `env:"TRAINPLAN_CATALOG_DIR" envDefault:""`
	// OpenAIAPIKey enables generated exercise instructions when set.
	OpenAIAPIKey string `env:"TRAINPLAN_OPENAI_API_KEY" envDefault:""`
	// MaxProgramWeeks caps the number of weeks generated for one program.
	MaxProgramWeeks int `env:"TRAINPLAN_MAX_PROGRAM_WEEKS" envDefault:"12"`
	// TracesDir enables the flight recorder. Requests that time out dump an execution trace there.
	TracesDir string `env:"TRAINPLAN_TRACES_DIR" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var htmlTemplatePath string
	if htmlTemplatePath, err = resolveAndVerifyTemplatePath(cfg.TemplatePath); err != nil {
		return errors.Wrap(err, "resolve template path")
	}

	catalog := workout.DefaultCatalog()
	if cfg.CatalogDir != "" {
		if catalog, err = workout.LoadCatalogDir(cfg.CatalogDir); err != nil {
			return errors.Wrap(err, "load catalog", slog.String("dir", cfg.CatalogDir))
		}
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "loaded catalog",
		slog.Int("exercises", len(catalog.Exercises())), slog.Int("programs", len(catalog.Programs())))

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close db", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	var enricher workout.Enricher
	if cfg.OpenAIAPIKey != "" {
		enricher = workout.NewOpenAIEnricher(cfg.OpenAIAPIKey)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "configured enrichment", slog.Bool("enabled", enricher != nil))

	var traces *flightrecorder.Recorder
	if cfg.TracesDir != "" {
		if traces, err = flightrecorder.New(logger, flightrecorder.Config{
			Dir: cfg.TracesDir, MinAge: 0, MaxBytes: 0, Cooldown: 0,
		}); err != nil {
			return errors.Wrap(err, "new flight recorder")
		}
		if err = traces.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer traces.Stop(context.WithoutCancel(ctx))
	}

	app := application{
		logger:     logger,
		templateFS: os.DirFS(htmlTemplatePath),
		markdown:   newMarkdown(),
		workoutService: workout.NewService(db, logger, workout.ServiceOptions{
			Catalog:         catalog,
			Enricher:        enricher,
			MaxProgramWeeks: cfg.MaxProgramWeeks,
		}),
		traces: traces,
	}

	handler, err := app.routes()
	if err != nil {
		return errors.Wrap(err, "routes")
	}
	if err = app.configureAndStartServer(ctx, cfg.Addr, handler); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
