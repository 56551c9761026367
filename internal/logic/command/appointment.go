package command

import (
	"fmt"
	"time"

	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/model"
)

const (
	AddAppointmentWord      = "add-appointment"
	CompleteAppointmentWord = "complete-appointment"
	DeleteAppointmentWord   = "delete-appointment"
)

const AddAppointmentUsage = AddAppointmentWord + ": Books an appointment between a patient and a doctor.\n" +
	"Parameters: pn/PATIENT_NAME [pp/PATIENT_PHONE] dn/DOCTOR_NAME [dp/DOCTOR_PHONE] dt/YYYY-MM-DD HH:MM [cm/COMMENTS]\n" +
	"Example: " + AddAppointmentWord + " pn/Alex Yeoh dn/Irfan Ibrahim dt/2026-11-02 14:30 cm/Blood test"

const CompleteAppointmentUsage = CompleteAppointmentWord + ": Marks an upcoming appointment as completed.\n" +
	"Parameters: APPOINTMENT_ID\n" +
	"Example: " + CompleteAppointmentWord + " 10000"

const DeleteAppointmentUsage = DeleteAppointmentWord + ": Cancels an upcoming appointment.\n" +
	"Parameters: APPOINTMENT_ID\n" +
	"Example: " + DeleteAppointmentWord + " 10000"

const (
	MessageAddAppointmentSuccess      = "New appointment added: %s"
	MessageAppointmentClash           = "%s already has an appointment at %s"
	MessageCompleteAppointmentSuccess = "Appointment completed: %s"
	MessageAppointmentAlreadyDone     = "This appointment has already been completed"
	MessageDeleteAppointmentSuccess   = "Appointment deleted: %s"
	MessageDeleteCompletedAppointment = "Only upcoming appointments can be deleted"
)

type AddAppointment struct {
	Patient  PersonRef
	Doctor   PersonRef
	DateTime time.Time
	Comments string
}

func (c *AddAppointment) Execute(m *model.Manager, _ *History) (Result, error) {
	persons := m.Persons()
	patient, err := resolvePerson(persons, c.Patient, record.RolePatient)
	if err != nil {
		return Result{}, err
	}
	doctor, err := resolvePerson(persons, c.Doctor, record.RoleDoctor)
	if err != nil {
		return Result{}, err
	}

	appt := record.NewAppointment(m.NextAppointmentID(), doctor.Name, patient.Name, c.DateTime, c.Comments)
	for _, p := range []record.Person{patient, doctor} {
		if p.HasUpcomingAppointmentAt(appt) {
			return Result{}, Errorf(MessageAppointmentClash, p.Name, appt.DateTime.Format(record.DateTimeLayout))
		}
	}

	editedPatient := patient.WithUpcomingAppointment(appt)
	err = apply(m, func() error {
		if err := m.AddAppointment(appt); err != nil {
			return err
		}
		if err := m.UpdatePerson(patient, editedPatient); err != nil {
			return err
		}
		if err := m.UpdatePerson(doctor, doctor.WithUpcomingAppointment(appt)); err != nil {
			return err
		}
		m.UpdateFilteredPersons(model.ShowAllPersons)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	m.SelectPerson(editedPatient)
	return NewResult(fmt.Sprintf(MessageAddAppointmentSuccess, appt)), nil
}

type CompleteAppointment struct {
	AppointmentID int
}

// Execute moves the appointment to the patient's past appointments and drops
// it from the doctor's record.
func (c *CompleteAppointment) Execute(m *model.Manager, _ *History) (Result, error) {
	appt, ok := findAppointment(m.FilteredAppointments(), c.AppointmentID)
	if !ok {
		return Result{}, failure(MessageAppointmentDoesNotExist)
	}
	if appt.Status == record.StatusCompleted {
		return Result{}, failure(MessageAppointmentAlreadyDone)
	}

	doctor, patient := findParticipants(m.Persons(), appt)
	if doctor == nil || patient == nil {
		return Result{}, failure(MessageAppointmentDoesNotExist)
	}

	done := appt.Complete()
	editedPatient := patient.WithCompletedAppointment(done)
	err := apply(m, func() error {
		if err := m.SetAppointment(appt, done); err != nil {
			return err
		}
		if err := m.UpdatePerson(*patient, editedPatient); err != nil {
			return err
		}
		if err := m.UpdatePerson(*doctor, doctor.WithCompletedAppointment(done)); err != nil {
			return err
		}
		m.UpdateFilteredAppointments(model.ShowAllAppointments)
		m.UpdateFilteredPersons(model.ShowAllPersons)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	m.SelectPerson(editedPatient)
	return NewResult(fmt.Sprintf(MessageCompleteAppointmentSuccess, done)), nil
}

type DeleteAppointment struct {
	AppointmentID int
}

func (c *DeleteAppointment) Execute(m *model.Manager, _ *History) (Result, error) {
	appt, ok := findAppointment(m.FilteredAppointments(), c.AppointmentID)
	if !ok {
		return Result{}, failure(MessageAppointmentDoesNotExist)
	}
	if appt.Status != record.StatusUpcoming {
		return Result{}, failure(MessageDeleteCompletedAppointment)
	}

	doctor, patient := findParticipants(m.Persons(), appt)
	err := apply(m, func() error {
		if err := m.DeleteAppointment(appt); err != nil {
			return err
		}
		for _, p := range []*record.Person{doctor, patient} {
			if p == nil {
				continue
			}
			if err := m.UpdatePerson(*p, p.WithoutAppointment(appt.ID)); err != nil {
				return err
			}
		}
		m.UpdateFilteredAppointments(model.ShowAllAppointments)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return NewResult(fmt.Sprintf(MessageDeleteAppointmentSuccess, appt)), nil
}
