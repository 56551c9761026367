// Package model holds the in-memory health book of a running program: the
// current state, predicate-filtered views over it, and the undo/redo history
// of committed snapshots.
package model

import (
	"fmt"

	"github.com/healthbook/healthbook/internal/domain/healthbook"
	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/platform/event"
)

// Manager is not safe for concurrent use; callers serialize commands.
type Manager struct {
	book         *healthbook.HealthBook
	history      *History
	personFilter PersonPredicate
	apptFilter   AppointmentPredicate
	prefs        UserPrefs
	events       event.Publisher
}

type Option func(*Manager)

// WithHistoryLimit bounds the undo depth.
func WithHistoryLimit(n int) Option {
	return func(m *Manager) { m.history = NewHistory(m.book, n) }
}

func WithEvents(p event.Publisher) Option {
	return func(m *Manager) { m.events = p }
}

// NewManager starts from a copy of initial, which becomes the first history
// state.
func NewManager(initial *healthbook.HealthBook, prefs UserPrefs, opts ...Option) *Manager {
	if initial == nil {
		initial = healthbook.New()
	}
	m := &Manager{
		book:         initial.Clone(),
		personFilter: ShowAllPersons,
		apptFilter:   ShowAllAppointments,
		prefs:        prefs,
		events:       event.Discard{},
	}
	m.history = NewHistory(m.book, DefaultHistoryLimit)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HealthBook returns a copy of the current state.
func (m *Manager) HealthBook() *healthbook.HealthBook {
	return m.book.Clone()
}

// Persons returns every person regardless of the active filter.
func (m *Manager) Persons() []record.Person {
	return m.book.Persons()
}

// Appointments returns every appointment regardless of the active filter.
func (m *Manager) Appointments() []record.Appointment {
	return m.book.Appointments()
}

// ResetData replaces the current state with a copy of b. It is not committed.
func (m *Manager) ResetData(b *healthbook.HealthBook) {
	m.book.ResetData(b)
}

func (m *Manager) HasPerson(p record.Person) bool {
	return m.book.HasPerson(p)
}

func (m *Manager) AddPatient(p record.Person) error {
	if p.Role != record.RolePatient {
		return fmt.Errorf("add patient: %s is a %s", p.Name, p.Role)
	}
	return m.addPerson(p)
}

func (m *Manager) AddDoctor(p record.Person) error {
	if p.Role != record.RoleDoctor {
		return fmt.Errorf("add doctor: %s is a %s", p.Name, p.Role)
	}
	return m.addPerson(p)
}

func (m *Manager) addPerson(p record.Person) error {
	if err := m.book.AddPerson(p); err != nil {
		return err
	}
	m.personFilter = ShowAllPersons
	return nil
}

// UpdatePerson replaces target with edited. Fails with
// healthbook.ErrPersonNotFound or healthbook.ErrDuplicatePerson.
func (m *Manager) UpdatePerson(target, edited record.Person) error {
	return m.book.SetPerson(target, edited)
}

func (m *Manager) DeletePerson(p record.Person) error {
	return m.book.RemovePerson(p)
}

func (m *Manager) HasAppointment(id int) bool {
	return m.book.HasAppointment(id)
}

// NextAppointmentID is the id the next new appointment receives.
func (m *Manager) NextAppointmentID() int {
	return m.book.NextAppointmentID()
}

func (m *Manager) AddAppointment(a record.Appointment) error {
	if err := m.book.AddAppointment(a); err != nil {
		return err
	}
	m.apptFilter = ShowAllAppointments
	return nil
}

// SetAppointment replaces target with edited. Fails with
// healthbook.ErrAppointmentNotFound or healthbook.ErrDuplicateAppointment.
func (m *Manager) SetAppointment(target, edited record.Appointment) error {
	return m.book.SetAppointment(target, edited)
}

func (m *Manager) DeleteAppointment(a record.Appointment) error {
	return m.book.RemoveAppointment(a)
}

// FilteredPersons returns the persons matching the active person predicate.
func (m *Manager) FilteredPersons() []record.Person {
	var out []record.Person
	for _, p := range m.book.Persons() {
		if m.personFilter(p) {
			out = append(out, p)
		}
	}
	return out
}

func (m *Manager) UpdateFilteredPersons(pred PersonPredicate) {
	if pred == nil {
		pred = ShowAllPersons
	}
	m.personFilter = pred
}

func (m *Manager) FilteredAppointments() []record.Appointment {
	var out []record.Appointment
	for _, a := range m.book.Appointments() {
		if m.apptFilter(a) {
			out = append(out, a)
		}
	}
	return out
}

func (m *Manager) UpdateFilteredAppointments(pred AppointmentPredicate) {
	if pred == nil {
		pred = ShowAllAppointments
	}
	m.apptFilter = pred
}

// CommitHealthBook records the current state in the history.
func (m *Manager) CommitHealthBook() {
	m.history.Commit(m.book)
	m.indicateChanged()
}

// Rollback discards every change made since the last commit, undo or redo.
func (m *Manager) Rollback() {
	m.book = m.history.Current()
}

func (m *Manager) CanUndoHealthBook() bool { return m.history.CanUndo() }

func (m *Manager) CanRedoHealthBook() bool { return m.history.CanRedo() }

// UndoHealthBook restores the previous committed state, or fails with
// ErrNoUndoableState.
func (m *Manager) UndoHealthBook() error {
	b, err := m.history.Undo()
	if err != nil {
		return err
	}
	m.book = b
	m.indicateChanged()
	return nil
}

// RedoHealthBook restores the state most recently undone, or fails with
// ErrNoRedoableState.
func (m *Manager) RedoHealthBook() error {
	b, err := m.history.Redo()
	if err != nil {
		return err
	}
	m.book = b
	m.indicateChanged()
	return nil
}

// SelectPerson notifies subscribers that p should be shown.
func (m *Manager) SelectPerson(p record.Person) {
	m.events.Publish(event.New(event.KindPersonSelected, p.Clone()))
}

func (m *Manager) UserPrefs() UserPrefs { return m.prefs }

func (m *Manager) indicateChanged() {
	m.events.Publish(event.New(event.KindHealthBookChanged, m.book.Clone()))
}
