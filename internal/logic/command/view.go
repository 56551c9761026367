package command

import (
	"fmt"
	"strings"

	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/model"
)

const (
	ListWord             = "list"
	ListAppointmentsWord = "list-appointments"
	FindWord             = "find"
	HistoryWord          = "history"
)

const ListUsage = ListWord + ": Lists persons in the health book.\n" +
	"Parameters: [patients|doctors]\n" +
	"Example: " + ListWord + " doctors"

const ListAppointmentsUsage = ListAppointmentsWord + ": Lists appointments, or only those of one patient or doctor.\n" +
	"Parameters: [NAME]\n" +
	"Example: " + ListAppointmentsWord + " Alex Yeoh"

const FindUsage = FindWord + ": Finds all persons whose names contain any of the given words (case-insensitive).\n" +
	"Parameters: KEYWORD [MORE_KEYWORDS]...\n" +
	"Example: " + FindWord + " alice bob charlie"

const HistoryUsage = HistoryWord + ": Lists the entered commands, most recent first.\n" +
	"Example: " + HistoryWord

const (
	MessageListSuccess      = "Listed all persons"
	MessageListRoleSuccess  = "Listed all %ss"
	MessagePersonsListed    = "%d persons listed!"
	MessageNoHistory        = "You have not yet entered any commands."
	MessageHistorySuccess   = "Entered commands (from most recent to earliest):\n%s"
	MessageUnknownListScope = "Unknown list scope: %s"

	MessageListAppointmentsSuccess = "Listed all appointments"
	MessageAppointmentsListed      = "%d appointments listed!"
)

// List shows every person, or only one role when Role is set.
type List struct {
	Role record.Role
}

func (c *List) Execute(m *model.Manager, _ *History) (Result, error) {
	m.UpdateFilteredAppointments(model.ShowAllAppointments)
	switch c.Role {
	case 0:
		m.UpdateFilteredPersons(model.ShowAllPersons)
		return NewResult(MessageListSuccess), nil
	case record.RolePatient, record.RoleDoctor:
		m.UpdateFilteredPersons(model.PersonsWithRole(c.Role))
		return NewResult(fmt.Sprintf(MessageListRoleSuccess, c.Role)), nil
	}
	return Result{}, Errorf(MessageUnknownListScope, c.Role)
}

// ListAppointments narrows the appointment list to the appointments of Name,
// or shows them all when Name is empty.
type ListAppointments struct {
	Name string
}

func (c *ListAppointments) Execute(m *model.Manager, _ *History) (Result, error) {
	if c.Name == "" {
		m.UpdateFilteredAppointments(model.ShowAllAppointments)
		return NewResult(MessageListAppointmentsSuccess), nil
	}
	m.UpdateFilteredAppointments(model.AppointmentsOf(c.Name))
	return NewResult(fmt.Sprintf(MessageAppointmentsListed, len(m.FilteredAppointments()))), nil
}

type Find struct {
	Keywords []string
}

func (c *Find) Execute(m *model.Manager, _ *History) (Result, error) {
	m.UpdateFilteredPersons(model.NameContainsKeywords(c.Keywords))
	return NewResult(fmt.Sprintf(MessagePersonsListed, len(m.FilteredPersons()))), nil
}

type ShowHistory struct{}

func (ShowHistory) Execute(_ *model.Manager, h *History) (Result, error) {
	lines := h.Lines()
	if len(lines) == 0 {
		return NewResult(MessageNoHistory), nil
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return NewResult(fmt.Sprintf(MessageHistorySuccess, strings.Join(lines, "\n"))), nil
}
