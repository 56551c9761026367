package command

import (
	"fmt"

	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/model"
)

const (
	AddMedicalHistoryWord = "add-medical-history"
	RemarkWord            = "remark"
	DeleteWord            = "delete"
)

const AddMedicalHistoryUsage = AddMedicalHistoryWord + ": Adds allergies and conditions to a patient's medical history.\n" +
	"Parameters: n/NAME [p/PHONE] [al/ALLERGY]... [co/CONDITION]...\n" +
	"Example: " + AddMedicalHistoryWord + " n/Alex Yeoh al/Penicillin co/Asthma"

const RemarkUsage = RemarkWord + ": Edits the remark of a person. An empty remark removes it.\n" +
	"Parameters: n/NAME [p/PHONE] r/[REMARK]\n" +
	"Example: " + RemarkWord + " n/Alex Yeoh r/Prefers morning slots"

const DeleteUsage = DeleteWord + ": Deletes a person from the health book.\n" +
	"Parameters: n/NAME [p/PHONE]\n" +
	"Example: " + DeleteWord + " n/Alex Yeoh p/87438807"

const (
	MessageAddMedicalHistorySuccess = "Medical history updated: %s"
	MessageMedicalHistoryEmpty      = "At least one allergy or condition must be provided"
	MessageAddRemarkSuccess         = "Added remark to Person: %s"
	MessageDeleteRemarkSuccess      = "Removed remark from Person: %s"
	MessageDeletePersonSuccess      = "Deleted Person: %s"
	MessagePersonHasAppointments    = "%s still has upcoming appointments. Delete or complete them first."
)

type AddMedicalHistory struct {
	Patient    PersonRef
	Allergies  []string
	Conditions []string
}

func (c *AddMedicalHistory) Execute(m *model.Manager, _ *History) (Result, error) {
	if len(c.Allergies) == 0 && len(c.Conditions) == 0 {
		return Result{}, failure(MessageMedicalHistoryEmpty)
	}
	patient, err := resolvePerson(m.Persons(), c.Patient, record.RolePatient)
	if err != nil {
		return Result{}, err
	}

	history := patient.MedicalHistory.WithAllergies(c.Allergies...).WithConditions(c.Conditions...)
	edited := patient.WithMedicalHistory(history)
	err = apply(m, func() error {
		if err := m.UpdatePerson(patient, edited); err != nil {
			return err
		}
		m.UpdateFilteredPersons(model.ShowAllPersons)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	m.SelectPerson(edited)
	return NewResult(fmt.Sprintf(MessageAddMedicalHistorySuccess, edited)), nil
}

type Remark struct {
	Person PersonRef
	Remark string
}

func (c *Remark) Execute(m *model.Manager, _ *History) (Result, error) {
	target, err := resolvePerson(m.Persons(), c.Person, 0)
	if err != nil {
		return Result{}, err
	}

	edited := target.WithRemark(c.Remark)
	err = apply(m, func() error {
		if err := m.UpdatePerson(target, edited); err != nil {
			return err
		}
		m.UpdateFilteredPersons(model.ShowAllPersons)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	m.SelectPerson(edited)
	if c.Remark == "" {
		return NewResult(fmt.Sprintf(MessageDeleteRemarkSuccess, edited)), nil
	}
	return NewResult(fmt.Sprintf(MessageAddRemarkSuccess, edited)), nil
}

type Delete struct {
	Person PersonRef
}

func (c *Delete) Execute(m *model.Manager, _ *History) (Result, error) {
	target, err := resolvePerson(m.Persons(), c.Person, 0)
	if err != nil {
		return Result{}, err
	}
	if len(target.UpcomingAppointments) > 0 {
		return Result{}, Errorf(MessagePersonHasAppointments, target.Name)
	}

	if err := apply(m, func() error { return m.DeletePerson(target) }); err != nil {
		return Result{}, err
	}
	return NewResult(fmt.Sprintf(MessageDeletePersonSuccess, target)), nil
}
