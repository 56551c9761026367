package healthbook

import (
	"time"

	"github.com/healthbook/healthbook/internal/domain/record"
)

// Sample returns the starter book used when no data has been saved yet: two
// doctors, three patients and one upcoming appointment.
func Sample() *HealthBook {
	at := time.Date(time.Now().Year()+1, time.January, 15, 9, 30, 0, 0, time.Local)
	appt := record.NewAppointment(FirstAppointmentID, "Irfan Ibrahim", "Alex Yeoh", at, "Annual check-up")

	persons := []record.Person{
		record.NewPatient("Alex Yeoh", "87438807", "alexyeoh@example.com", "Blk 30 Geylang Street 29, #06-40", "",
			[]string{"friends"}, "@alexyeoh").
			WithMedicalHistory(record.MedicalHistory{}.WithAllergies("Penicillin").WithConditions("Asthma")).
			WithUpcomingAppointment(appt),
		record.NewPatient("Bernice Yu", "99272758", "berniceyu@example.com", "Blk 30 Lorong 3 Serangoon Gardens, #07-18", "",
			[]string{"colleagues", "friends"}, ""),
		record.NewPatient("Charlotte Oliveiro", "93210283", "charlotte@example.com", "Blk 11 Ang Mo Kio Street 74, #11-04", "",
			[]string{"neighbours"}, ""),
		record.NewDoctor("David Li", "91031282", "lidavid@example.com", "Blk 436 Serangoon Gardens Street 26, #16-43", "",
			[]string{"cardiology"}),
		record.NewDoctor("Irfan Ibrahim", "92492021", "irfan@example.com", "Blk 47 Tampines Street 20, #17-35", "",
			[]string{"general"}).
			WithUpcomingAppointment(appt),
	}

	b, err := FromData(persons, []record.Appointment{appt})
	if err != nil {
		panic("healthbook: invalid sample data: " + err.Error())
	}
	return b
}
