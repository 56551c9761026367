// Package healthbook holds the collection of persons and appointments that
// makes up one health book, and enforces its uniqueness invariants.
package healthbook

import (
	"errors"
	"fmt"

	"github.com/healthbook/healthbook/internal/domain/record"
)

// FirstAppointmentID is the id given to the first appointment of an empty book.
const FirstAppointmentID = 10000

var (
	ErrPersonNotFound       = errors.New("person not found")
	ErrDuplicatePerson      = errors.New("duplicate person")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrDuplicateAppointment = errors.New("duplicate appointment")
)

// HealthBook is not safe for concurrent use.
type HealthBook struct {
	persons      []record.Person
	appointments []record.Appointment
}

func New() *HealthBook {
	return &HealthBook{}
}

// FromData builds a book from persons and appointments, rejecting duplicate
// persons and duplicate appointment ids.
func FromData(persons []record.Person, appointments []record.Appointment) (*HealthBook, error) {
	b := New()
	for _, p := range persons {
		if err := b.AddPerson(p); err != nil {
			return nil, fmt.Errorf("person %q: %w", p.Name, err)
		}
	}
	for _, a := range appointments {
		if err := b.AddAppointment(a); err != nil {
			return nil, fmt.Errorf("appointment %d: %w", a.ID, err)
		}
	}
	return b, nil
}

// Persons returns a copy of the person list.
func (b *HealthBook) Persons() []record.Person {
	out := make([]record.Person, len(b.persons))
	for i, p := range b.persons {
		out[i] = p.Clone()
	}
	return out
}

// Appointments returns a copy of the appointment list.
func (b *HealthBook) Appointments() []record.Appointment {
	out := make([]record.Appointment, len(b.appointments))
	for i, a := range b.appointments {
		out[i] = a.Clone()
	}
	return out
}

func (b *HealthBook) HasPerson(p record.Person) bool {
	return b.indexOfPerson(p) >= 0
}

func (b *HealthBook) AddPerson(p record.Person) error {
	if b.HasPerson(p) {
		return ErrDuplicatePerson
	}
	b.persons = append(b.persons, p.Clone())
	return nil
}

// SetPerson replaces target with edited. The edited person may keep target's
// identity or take a new one that no other person has.
func (b *HealthBook) SetPerson(target, edited record.Person) error {
	i := b.indexOfPerson(target)
	if i < 0 {
		return ErrPersonNotFound
	}
	if !target.IsSamePerson(edited) && b.HasPerson(edited) {
		return ErrDuplicatePerson
	}
	b.persons[i] = edited.Clone()
	return nil
}

func (b *HealthBook) RemovePerson(p record.Person) error {
	i := b.indexOfPerson(p)
	if i < 0 {
		return ErrPersonNotFound
	}
	b.persons = append(b.persons[:i:i], b.persons[i+1:]...)
	return nil
}

func (b *HealthBook) HasAppointment(id int) bool {
	return b.indexOfAppointment(id) >= 0
}

// FindAppointment returns a copy of the appointment with the given id.
func (b *HealthBook) FindAppointment(id int) (record.Appointment, bool) {
	i := b.indexOfAppointment(id)
	if i < 0 {
		return record.Appointment{}, false
	}
	return b.appointments[i].Clone(), true
}

func (b *HealthBook) AddAppointment(a record.Appointment) error {
	if b.HasAppointment(a.ID) {
		return ErrDuplicateAppointment
	}
	b.appointments = append(b.appointments, a.Clone())
	return nil
}

func (b *HealthBook) SetAppointment(target, edited record.Appointment) error {
	i := b.indexOfAppointment(target.ID)
	if i < 0 {
		return ErrAppointmentNotFound
	}
	if !target.IsSameAppointment(edited) && b.HasAppointment(edited.ID) {
		return ErrDuplicateAppointment
	}
	b.appointments[i] = edited.Clone()
	return nil
}

func (b *HealthBook) RemoveAppointment(a record.Appointment) error {
	i := b.indexOfAppointment(a.ID)
	if i < 0 {
		return ErrAppointmentNotFound
	}
	b.appointments = append(b.appointments[:i:i], b.appointments[i+1:]...)
	return nil
}

// NextAppointmentID is one past the largest id in use, or
// FirstAppointmentID for a book without appointments.
func (b *HealthBook) NextAppointmentID() int {
	next := FirstAppointmentID
	for _, a := range b.appointments {
		if a.ID >= next {
			next = a.ID + 1
		}
	}
	return next
}

// ResetData replaces the whole content of b with a copy of other.
func (b *HealthBook) ResetData(other *HealthBook) {
	c := other.Clone()
	b.persons = c.persons
	b.appointments = c.appointments
}

func (b *HealthBook) Clone() *HealthBook {
	c := &HealthBook{}
	if b.persons != nil {
		c.persons = make([]record.Person, len(b.persons))
		for i, p := range b.persons {
			c.persons[i] = p.Clone()
		}
	}
	if b.appointments != nil {
		c.appointments = make([]record.Appointment, len(b.appointments))
		for i, a := range b.appointments {
			c.appointments[i] = a.Clone()
		}
	}
	return c
}

// Equal compares both lists element by element, in order.
func (b *HealthBook) Equal(other *HealthBook) bool {
	if b == nil || other == nil {
		return b == other
	}
	if len(b.persons) != len(other.persons) || len(b.appointments) != len(other.appointments) {
		return false
	}
	for i := range b.persons {
		if !b.persons[i].Equal(other.persons[i]) {
			return false
		}
	}
	for i := range b.appointments {
		if !b.appointments[i].Equal(other.appointments[i]) {
			return false
		}
	}
	return true
}

func (b *HealthBook) String() string {
	return fmt.Sprintf("%d persons, %d appointments", len(b.persons), len(b.appointments))
}

func (b *HealthBook) indexOfPerson(p record.Person) int {
	for i, existing := range b.persons {
		if existing.IsSamePerson(p) {
			return i
		}
	}
	return -1
}

func (b *HealthBook) indexOfAppointment(id int) int {
	for i, a := range b.appointments {
		if a.ID == id {
			return i
		}
	}
	return -1
}
