package model

import (
	"strings"

	"github.com/healthbook/healthbook/internal/domain/record"
)

type PersonPredicate func(record.Person) bool

type AppointmentPredicate func(record.Appointment) bool

func ShowAllPersons(record.Person) bool { return true }

func ShowAllAppointments(record.Appointment) bool { return true }

func PersonsWithRole(role record.Role) PersonPredicate {
	return func(p record.Person) bool { return p.Role == role }
}

// NameContainsKeywords matches persons having any keyword as a whole word of
// their name, ignoring case.
func NameContainsKeywords(keywords []string) PersonPredicate {
	return func(p record.Person) bool {
		words := strings.Fields(p.Name)
		for _, k := range keywords {
			for _, w := range words {
				if strings.EqualFold(w, k) {
					return true
				}
			}
		}
		return false
	}
}

// AppointmentsOf matches appointments where name is the patient or the doctor.
func AppointmentsOf(name string) AppointmentPredicate {
	return func(a record.Appointment) bool {
		return a.Patient == name || a.Doctor == name
	}
}
