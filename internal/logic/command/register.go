package command

import (
	"fmt"

	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/model"
)

const (
	RegisterPatientWord = "register-patient"
	RegisterDoctorWord  = "register-doctor"
)

const RegisterPatientUsage = RegisterPatientWord + ": Registers a patient in the health book.\n" +
	"Parameters: n/NAME p/PHONE e/EMAIL a/ADDRESS [tg/TELEGRAM_ID] [t/TAG]...\n" +
	"Example: " + RegisterPatientWord + " n/John Doe p/98765432 e/johnd@example.com a/311, Clementi Ave 2, #02-25 tg/@johndoe t/diabetic"

const RegisterDoctorUsage = RegisterDoctorWord + ": Registers a doctor in the health book.\n" +
	"Parameters: n/NAME p/PHONE e/EMAIL a/ADDRESS [t/TAG]...\n" +
	"Example: " + RegisterDoctorWord + " n/Jane Lim p/91234567 e/jane@example.com a/10 Outram Rd t/cardiology"

const (
	MessageRegisterPatientSuccess = "New patient added: %s"
	MessageRegisterDoctorSuccess  = "New doctor added: %s"
)

type RegisterPatient struct {
	Patient record.Person
}

func (c *RegisterPatient) Execute(m *model.Manager, _ *History) (Result, error) {
	if m.HasPerson(c.Patient) {
		return Result{}, failure(MessageDuplicatePerson)
	}
	if err := apply(m, func() error { return m.AddPatient(c.Patient) }); err != nil {
		return Result{}, err
	}
	return NewResult(fmt.Sprintf(MessageRegisterPatientSuccess, c.Patient)), nil
}

type RegisterDoctor struct {
	Doctor record.Person
}

func (c *RegisterDoctor) Execute(m *model.Manager, _ *History) (Result, error) {
	if m.HasPerson(c.Doctor) {
		return Result{}, failure(MessageDuplicatePerson)
	}
	if err := apply(m, func() error { return m.AddDoctor(c.Doctor) }); err != nil {
		return Result{}, err
	}
	return NewResult(fmt.Sprintf(MessageRegisterDoctorSuccess, c.Doctor)), nil
}
