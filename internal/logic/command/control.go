package command

import (
	"errors"
	"strings"

	"github.com/healthbook/healthbook/internal/domain/healthbook"
	"github.com/healthbook/healthbook/internal/model"
)

const (
	UndoWord  = "undo"
	RedoWord  = "redo"
	ClearWord = "clear"
	HelpWord  = "help"
	ExitWord  = "exit"
)

const (
	UndoUsage  = UndoWord + ": Reverts the health book to the state before the previous change.\nExample: " + UndoWord
	RedoUsage  = RedoWord + ": Restores the health book to the state before the previous undo.\nExample: " + RedoWord
	ClearUsage = ClearWord + ": Removes every person and appointment.\nExample: " + ClearWord
	HelpUsage  = HelpWord + ": Shows the command reference.\nExample: " + HelpWord
	ExitUsage  = ExitWord + ": Saves and exits the program.\nExample: " + ExitWord
)

const (
	MessageUndoSuccess  = "Undo success!"
	MessageUndoFailure  = "No more commands to undo!"
	MessageRedoSuccess  = "Redo success!"
	MessageRedoFailure  = "No more commands to redo!"
	MessageClearSuccess = "Health book has been cleared!"
	MessageShowingHelp  = "Opened help."
	MessageExiting      = "Exiting health book as requested ..."
)

type Undo struct{}

func (Undo) Execute(m *model.Manager, _ *History) (Result, error) {
	if err := m.UndoHealthBook(); err != nil {
		if errors.Is(err, model.ErrNoUndoableState) {
			return Result{}, failure(MessageUndoFailure)
		}
		return Result{}, err
	}
	m.UpdateFilteredPersons(model.ShowAllPersons)
	m.UpdateFilteredAppointments(model.ShowAllAppointments)
	return NewResult(MessageUndoSuccess), nil
}

type Redo struct{}

func (Redo) Execute(m *model.Manager, _ *History) (Result, error) {
	if err := m.RedoHealthBook(); err != nil {
		if errors.Is(err, model.ErrNoRedoableState) {
			return Result{}, failure(MessageRedoFailure)
		}
		return Result{}, err
	}
	m.UpdateFilteredPersons(model.ShowAllPersons)
	m.UpdateFilteredAppointments(model.ShowAllAppointments)
	return NewResult(MessageRedoSuccess), nil
}

type Clear struct{}

func (Clear) Execute(m *model.Manager, _ *History) (Result, error) {
	err := apply(m, func() error {
		m.ResetData(healthbook.New())
		m.UpdateFilteredPersons(model.ShowAllPersons)
		m.UpdateFilteredAppointments(model.ShowAllAppointments)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return NewResult(MessageClearSuccess), nil
}

// HelpText lists the usage of every command.
var HelpText = strings.Join([]string{
	RegisterPatientUsage,
	RegisterDoctorUsage,
	AddAppointmentUsage,
	CompleteAppointmentUsage,
	DeleteAppointmentUsage,
	AddPrescriptionUsage,
	AddMedicalHistoryUsage,
	RemarkUsage,
	DeleteUsage,
	ListUsage,
	ListAppointmentsUsage,
	FindUsage,
	HistoryUsage,
	UndoUsage,
	RedoUsage,
	ClearUsage,
	HelpUsage,
	ExitUsage,
}, "\n\n")

type Help struct{}

func (Help) Execute(*model.Manager, *History) (Result, error) {
	return Result{Feedback: MessageShowingHelp, ShowHelp: true}, nil
}

type Exit struct{}

func (Exit) Execute(*model.Manager, *History) (Result, error) {
	return Result{Feedback: MessageExiting, Exit: true}, nil
}
