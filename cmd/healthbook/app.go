package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/healthbook/healthbook/internal/config"
	"github.com/healthbook/healthbook/internal/logic"
	"github.com/healthbook/healthbook/internal/model"
	"github.com/healthbook/healthbook/internal/platform/db"
	"github.com/healthbook/healthbook/internal/platform/encryption"
	"github.com/healthbook/healthbook/internal/platform/event"
	"github.com/healthbook/healthbook/internal/storage"
)

// app is the wired health book: storage, model, logic and the bus joining
// them.
type app struct {
	cfg         *config.Config
	logger      zerolog.Logger
	bus         *event.Bus
	pool        *pgxpool.Pool
	storage     *storage.Manager
	model       *model.Manager
	logic       *logic.Logic
	unsubscribe func()
}

func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if cfg.IsDev() {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(cfg.Level()).With().Timestamp().Logger()
}

// newApp opens the configured storage and loads the book and preferences
// from it. Every later change to the book is saved through the bus.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, bus: event.NewBus()}

	prefsStorage := storage.NewJSONUserPrefsStorage(cfg.PrefsFile)
	prefs := storage.LoadUserPrefs(prefsStorage, cfg.DataFile, logger)

	book, err := a.openBookStorage(ctx, prefs.HealthBookFilePath)
	if err != nil {
		return nil, err
	}
	a.storage = storage.NewManager(book, prefsStorage, a.bus, logger)

	initial, err := a.storage.LoadHealthBook(ctx)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("load health book: %w", err)
	}

	a.model = model.NewManager(initial, prefs,
		model.WithHistoryLimit(cfg.HistoryLimit),
		model.WithEvents(a.bus),
	)
	a.logic = logic.New(a.model, logger)
	a.unsubscribe = a.storage.Subscribe(a.bus)

	logger.Info().
		Str("location", a.storage.Location()).
		Int("persons", len(initial.Persons())).
		Int("appointments", len(initial.Appointments())).
		Msg("health book loaded")
	return a, nil
}

func (a *app) openBookStorage(ctx context.Context, path string) (storage.HealthBookStorage, error) {
	if a.cfg.StorageBackend != config.BackendPostgres {
		sealer, err := encryption.FromConfig(a.cfg.EncryptionKey, a.cfg.EncryptionPassphrase, a.logger)
		if err != nil {
			return nil, err
		}
		return storage.NewJSONHealthBookStorage(path, sealer), nil
	}

	pool, err := db.NewPool(ctx, a.cfg.DatabaseURL, a.cfg.DBMaxConns, a.cfg.DBMinConns)
	if err != nil {
		return nil, err
	}
	a.pool = pool
	a.logger.Info().Msg("connected to database")

	applied, err := db.NewMigrator(pool, storage.Migrations, storage.MigrationsDir).Up(ctx, a.cfg.DBSchema)
	if err != nil {
		pool.Close()
		a.pool = nil
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if applied > 0 {
		a.logger.Info().Int("count", applied).Str("schema", a.cfg.DBSchema).Msg("applied migrations")
	}
	return storage.NewPostgresHealthBookStorage(pool, a.cfg.DBSchema), nil
}

// close saves the preferences and releases the database pool.
func (a *app) close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.model != nil && a.storage != nil {
		if err := a.storage.SaveUserPrefs(a.model.UserPrefs()); err != nil {
			a.logger.Error().Err(err).Msg("could not save user prefs")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
