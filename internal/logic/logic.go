// Package logic runs command lines against the model.
package logic

import (
	"github.com/rs/zerolog"

	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/logic/command"
	"github.com/healthbook/healthbook/internal/logic/parser"
	"github.com/healthbook/healthbook/internal/model"
)

// Logic parses and executes one command line at a time. Like the model it
// wraps, it is not safe for concurrent use.
type Logic struct {
	model   *model.Manager
	history *command.History
	logger  zerolog.Logger
}

func New(m *model.Manager, logger zerolog.Logger) *Logic {
	return &Logic{
		model:   m,
		history: command.NewHistory(),
		logger:  logger.With().Str("component", "logic").Logger(),
	}
}

// Execute records line in the command history, even when it fails, then
// parses and runs it. User-facing failures are *parser.Error or
// *command.Error.
func (l *Logic) Execute(line string) (command.Result, error) {
	l.history.Add(line)
	l.logger.Debug().Str("command", line).Msg("executing command")

	c, err := parser.Parse(line)
	if err != nil {
		l.logger.Debug().Err(err).Msg("command rejected by parser")
		return command.Result{}, err
	}

	res, err := c.Execute(l.model, l.history)
	if err != nil {
		if command.IsUserError(err) {
			l.logger.Info().Str("command", line).Str("reason", err.Error()).Msg("command failed")
		} else {
			l.logger.Error().Err(err).Str("command", line).Msg("command failed unexpectedly")
		}
		return command.Result{}, err
	}
	l.logger.Info().Str("command", line).Msg("command executed")
	return res, nil
}

// IsUserError reports whether err carries a message meant for the user.
func IsUserError(err error) bool {
	return parser.IsParseError(err) || command.IsUserError(err)
}

func (l *Logic) FilteredPersons() []record.Person {
	return l.model.FilteredPersons()
}

func (l *Logic) FilteredAppointments() []record.Appointment {
	return l.model.FilteredAppointments()
}

// History returns the entered command lines, oldest first.
func (l *Logic) History() []string {
	return l.history.Lines()
}

func (l *Logic) Model() *model.Manager {
	return l.model
}
