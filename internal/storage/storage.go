// Package storage persists the health book and the user preferences. The
// health book is stored as one JSON document, either in a file or in a
// PostgreSQL table.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/healthbook/healthbook/internal/domain/healthbook"
	"github.com/healthbook/healthbook/internal/model"
)

// ErrNoData is returned by readers when nothing has been saved yet.
var ErrNoData = errors.New("storage: no data")

// DataConversionError reports stored data that cannot be turned back into a
// health book or user preferences.
type DataConversionError struct {
	Location string
	Err      error
}

func (e *DataConversionError) Error() string {
	return fmt.Sprintf("convert data at %s: %v", e.Location, e.Err)
}

func (e *DataConversionError) Unwrap() error { return e.Err }

type HealthBookStorage interface {
	ReadHealthBook(ctx context.Context) (*healthbook.HealthBook, error)
	SaveHealthBook(ctx context.Context, book *healthbook.HealthBook) error
	// Location describes where the book is kept, for logs and messages.
	Location() string
}

type UserPrefsStorage interface {
	ReadUserPrefs() (model.UserPrefs, error)
	SaveUserPrefs(prefs model.UserPrefs) error
}
