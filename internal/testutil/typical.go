// Package testutil builds the fixture health books shared by the tests of
// several packages.
package testutil

import (
	"time"

	"github.com/healthbook/healthbook/internal/domain/healthbook"
	"github.com/healthbook/healthbook/internal/domain/record"
)

const (
	UpcomingAppointmentID  = 10005
	CompletedAppointmentID = 10006
)

var appointmentTime = time.Date(2026, time.November, 2, 14, 30, 0, 0, time.UTC)

// UpcomingAppointment is Alice's upcoming appointment with Carl.
func UpcomingAppointment() record.Appointment {
	return record.NewAppointment(UpcomingAppointmentID, "Carl Kurz", "Alice Pauline", appointmentTime, "Follow-up")
}

// CompletedAppointment is Alice's past appointment with Carl. Carl no longer
// keeps it.
func CompletedAppointment() record.Appointment {
	return record.NewAppointment(CompletedAppointmentID, "Carl Kurz", "Alice Pauline", appointmentTime.AddDate(0, -1, 0), "").Complete()
}

// Alice is allergic to peanuts and has one upcoming and one past
// appointment.
func Alice() record.Person {
	return record.NewPatient("Alice Pauline", "94351253", "alice@example.com", "123 Jurong West Ave 6, #08-111", "",
		[]string{"friends"}, "@alicepauline").
		WithMedicalHistory(record.MedicalHistory{}.WithAllergies("peanuts").WithConditions("Hypertension")).
		WithUpcomingAppointment(UpcomingAppointment()).
		WithCompletedAppointment(CompletedAppointment())
}

// BensonPatient and BensonDoctor share a name but not a phone.
func BensonPatient() record.Person {
	return record.NewPatient("Benson Meier", "98765432", "johnd@example.com", "311 Clementi Ave 2, #02-25", "",
		[]string{"owesMoney", "friends"}, "")
}

func BensonDoctor() record.Person {
	return record.NewDoctor("Benson Meier", "87654321", "benson@example.com", "10th street", "", nil)
}

func Carl() record.Person {
	return record.NewDoctor("Carl Kurz", "95352563", "heinz@example.com", "wall street", "", nil).
		WithUpcomingAppointment(UpcomingAppointment())
}

func Daniel() record.Person {
	return record.NewPatient("Daniel Meier", "87652533", "cornelia@example.com", "10th street", "", []string{"friends"}, "")
}

// Amy is not part of the typical book.
func Amy() record.Person {
	return record.NewPatient("Amy Bee", "11111111", "amy@example.com", "Block 312, Amy Street 1", "", []string{"friend"}, "@amybee")
}

// Elle is a doctor not part of the typical book.
func Elle() record.Person {
	return record.NewDoctor("Elle Meyer", "94822240", "werner@example.com", "michegan ave", "", nil)
}

func TypicalPersons() []record.Person {
	return []record.Person{Alice(), BensonPatient(), BensonDoctor(), Carl(), Daniel()}
}

func TypicalAppointments() []record.Appointment {
	return []record.Appointment{UpcomingAppointment(), CompletedAppointment()}
}

// TypicalHealthBook holds TypicalPersons and TypicalAppointments.
func TypicalHealthBook() *healthbook.HealthBook {
	b, err := healthbook.FromData(TypicalPersons(), TypicalAppointments())
	if err != nil {
		panic(err)
	}
	return b
}
