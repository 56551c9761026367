// Package command implements the user actions of the health book. Every
// command validates its preconditions against the model before changing it,
// and commits a history snapshot only when the whole change has been applied.
package command

import (
	"errors"
	"fmt"

	"github.com/healthbook/healthbook/internal/domain/healthbook"
	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/model"
)

const (
	MessageInvalidPerson           = "This person does not exist in the health book"
	MessageDuplicatePerson         = "This person already exists in the health book"
	MessageDuplicatePersonName     = "There are multiple persons with this name. Please specify the phone number."
	MessageAppointmentDoesNotExist = "This appointment does not exist"
	MessageDuplicateAppointment    = "This appointment already exists in the health book"
)

// Command is one parsed user action.
type Command interface {
	Execute(m *model.Manager, h *History) (Result, error)
}

// Result is what the user sees after a successful command.
type Result struct {
	Feedback string
	ShowHelp bool
	Exit     bool
}

func NewResult(feedback string) Result {
	return Result{Feedback: feedback}
}

// Error is the single user-facing failure of a command. Its message is shown
// to the user as is.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func Errorf(format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

func failure(message string) error {
	return &Error{Message: message}
}

// IsUserError reports whether err carries a message meant for the user.
func IsUserError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// PersonRef names a person on the command line. Phone may be empty when the
// name alone is unambiguous.
type PersonRef struct {
	Name  string
	Phone string
}

func (r PersonRef) String() string {
	if r.Phone == "" {
		return r.Name
	}
	return r.Name + " (" + r.Phone + ")"
}

// resolvePerson finds the single person matching ref among persons. A zero
// role matches both patients and doctors.
func resolvePerson(persons []record.Person, ref PersonRef, role record.Role) (record.Person, error) {
	var matches []record.Person
	for _, p := range persons {
		if p.Name != ref.Name {
			continue
		}
		if role != 0 && p.Role != role {
			continue
		}
		if ref.Phone != "" && p.Phone != ref.Phone {
			continue
		}
		matches = append(matches, p)
	}
	switch len(matches) {
	case 0:
		return record.Person{}, failure(MessageInvalidPerson)
	case 1:
		return matches[0], nil
	}
	return record.Person{}, failure(MessageDuplicatePersonName)
}

func findAppointment(list []record.Appointment, id int) (record.Appointment, bool) {
	for _, a := range list {
		if a.ID == id {
			return a, true
		}
	}
	return record.Appointment{}, false
}

// findParticipants returns the doctor and patient of a by name, keeping only
// persons that still hold the appointment.
func findParticipants(persons []record.Person, a record.Appointment) (doctor, patient *record.Person) {
	for i := range persons {
		p := persons[i]
		switch p.Role {
		case record.RoleDoctor:
			if doctor == nil && p.Name == a.Doctor && p.HasAppointment(a.ID) {
				doctor = &persons[i]
			}
		case record.RolePatient:
			if patient == nil && p.Name == a.Patient && p.HasAppointment(a.ID) {
				patient = &persons[i]
			}
		}
		if doctor != nil && patient != nil {
			break
		}
	}
	return doctor, patient
}

// apply runs mutate and commits. On failure every uncommitted change is
// rolled back so nothing partial stays visible.
func apply(m *model.Manager, mutate func() error) error {
	if err := mutate(); err != nil {
		m.Rollback()
		return modelError(err)
	}
	m.CommitHealthBook()
	return nil
}

func modelError(err error) error {
	switch {
	case errors.Is(err, healthbook.ErrDuplicatePerson):
		return failure(MessageDuplicatePerson)
	case errors.Is(err, healthbook.ErrPersonNotFound):
		return failure(MessageInvalidPerson)
	case errors.Is(err, healthbook.ErrAppointmentNotFound):
		return failure(MessageAppointmentDoesNotExist)
	case errors.Is(err, healthbook.ErrDuplicateAppointment):
		return failure(MessageDuplicateAppointment)
	}
	return err
}
