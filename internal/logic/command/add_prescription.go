package command

import (
	"fmt"

	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/model"
)

const AddPrescriptionWord = "add-prescription"

const AddPrescriptionUsage = AddPrescriptionWord + ": Adds a prescription to an appointment.\n" +
	"Parameters: APPOINTMENT_ID m/MEDICINE_NAME d/DOSAGE c/CONSUMPTION_PER_DAY\n" +
	"Example: " + AddPrescriptionWord + " 10005 m/Paracetamol d/2 c/3"

const (
	MessageAddPrescriptionSuccess = "New Prescription added: %s"
	MessageDuplicatePrescription  = "This prescription already exists in the appointment"
	MessagePatientAllergic        = "This patient is allergic to %s"
)

type AddPrescription struct {
	AppointmentID int
	Prescription  record.Prescription
}

// Execute checks, in order: the appointment exists among the filtered
// appointments, the prescription is not already attached, both participants
// still hold the appointment (only the patient for completed ones), and the
// patient is not allergic to the medicine. The model is untouched unless
// every check passes.
func (c *AddPrescription) Execute(m *model.Manager, _ *History) (Result, error) {
	appt, ok := findAppointment(m.FilteredAppointments(), c.AppointmentID)
	if !ok {
		return Result{}, failure(MessageAppointmentDoesNotExist)
	}

	if appt.HasPrescription(c.Prescription) {
		return Result{}, failure(MessageDuplicatePrescription)
	}

	doctor, patient := findParticipants(m.Persons(), appt)
	switch appt.Status {
	case record.StatusUpcoming:
		if doctor == nil || patient == nil {
			return Result{}, failure(MessageAppointmentDoesNotExist)
		}
	case record.StatusCompleted:
		if patient == nil {
			return Result{}, failure(MessageAppointmentDoesNotExist)
		}
	default:
		return Result{}, Errorf("appointment %d has invalid status %v", appt.ID, appt.Status)
	}

	if allergy, allergic := patient.MedicalHistory.AllergyMatching(c.Prescription.MedicineName); allergic {
		return Result{}, Errorf(MessagePatientAllergic, allergy)
	}

	edited := appt.WithPrescription(c.Prescription)
	editedPatient := patient.WithAppointment(appt, edited)

	err := apply(m, func() error {
		if err := m.SetAppointment(appt, edited); err != nil {
			return err
		}
		if err := m.UpdatePerson(*patient, editedPatient); err != nil {
			return err
		}
		if doctor != nil {
			if err := m.UpdatePerson(*doctor, doctor.WithAppointment(appt, edited)); err != nil {
				return err
			}
		}
		m.UpdateFilteredAppointments(model.ShowAllAppointments)
		m.UpdateFilteredPersons(model.ShowAllPersons)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	m.SelectPerson(editedPatient)
	return NewResult(fmt.Sprintf(MessageAddPrescriptionSuccess, c.Prescription.MedicineName)), nil
}
