package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthbook/healthbook/internal/domain/healthbook"
	"github.com/healthbook/healthbook/internal/model"
	"github.com/healthbook/healthbook/internal/platform/event"
)

const saveTimeout = 10 * time.Second

// SaveFailure is the payload of a storage.save_failed event.
type SaveFailure struct {
	Location string
	Err      error
}

// Manager bundles the health book and user preferences storages and saves the
// health book whenever the model reports a change.
type Manager struct {
	book   HealthBookStorage
	prefs  UserPrefsStorage
	events event.Publisher
	logger zerolog.Logger
}

func NewManager(book HealthBookStorage, prefs UserPrefsStorage, events event.Publisher, logger zerolog.Logger) *Manager {
	if events == nil {
		events = event.Discard{}
	}
	return &Manager{
		book:   book,
		prefs:  prefs,
		events: events,
		logger: logger.With().Str("component", "storage").Str("location", book.Location()).Logger(),
	}
}

func (m *Manager) Location() string { return m.book.Location() }

func (m *Manager) ReadHealthBook(ctx context.Context) (*healthbook.HealthBook, error) {
	return m.book.ReadHealthBook(ctx)
}

func (m *Manager) SaveHealthBook(ctx context.Context, b *healthbook.HealthBook) error {
	return m.book.SaveHealthBook(ctx, b)
}

func (m *Manager) ReadUserPrefs() (model.UserPrefs, error) {
	return m.prefs.ReadUserPrefs()
}

func (m *Manager) SaveUserPrefs(p model.UserPrefs) error {
	return m.prefs.SaveUserPrefs(p)
}

// LoadHealthBook reads the stored book. When nothing was saved yet it starts
// from the sample book; when the stored data is unreadable it starts empty.
// Other errors are returned.
func (m *Manager) LoadHealthBook(ctx context.Context) (*healthbook.HealthBook, error) {
	b, err := m.book.ReadHealthBook(ctx)
	var convErr *DataConversionError
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, ErrNoData):
		m.logger.Info().Msg("no saved health book, starting with sample data")
		return healthbook.Sample(), nil
	case errors.As(err, &convErr):
		m.logger.Warn().Err(err).Msg("stored health book is not in the correct format, starting with an empty health book")
		return healthbook.New(), nil
	}
	return nil, err
}

// LoadUserPrefs reads the preferences, falling back to defaults pointing at
// defaultPath when none are saved or they cannot be read.
func (m *Manager) LoadUserPrefs(defaultPath string) model.UserPrefs {
	return LoadUserPrefs(m.prefs, defaultPath, m.logger)
}

// Subscribe saves the health book on every healthbook.changed event published
// on bus. Failures are logged and published as storage.save_failed; they
// never reach the command that caused the change.
func (m *Manager) Subscribe(bus *event.Bus) (unsubscribe func()) {
	return bus.Subscribe(event.KindHealthBookChanged, func(ev event.Event) {
		b, ok := ev.Payload.(*healthbook.HealthBook)
		if !ok {
			m.logger.Error().Str("event_id", ev.ID.String()).Msg("healthbook.changed event without a health book")
			return
		}
		m.saveAndReport(b)
	})
}

func (m *Manager) saveAndReport(b *healthbook.HealthBook) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := m.book.SaveHealthBook(ctx, b); err != nil {
		m.logger.Error().Err(err).Msg("could not save health book")
		m.events.Publish(event.New(event.KindSaveFailed, SaveFailure{Location: m.book.Location(), Err: err}))
		return
	}
	m.logger.Debug().Msg("health book saved")
}
