package record

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the layout appointments are entered and displayed in.
const DateTimeLayout = "2006-01-02 15:04"

// Status is the lifecycle state of an appointment.
type Status int

const (
	StatusUpcoming Status = iota + 1
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusUpcoming:
		return "UPCOMING"
	case StatusCompleted:
		return "COMPLETED"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusCompleted:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UPCOMING":
		return StatusUpcoming, nil
	case "COMPLETED":
		return StatusCompleted, nil
	}
	return 0, fmt.Errorf("unknown appointment status %q", s)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal status: invalid value %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Prescription is compared by value.
type Prescription struct {
	MedicineName      string `json:"medicine_name"`
	Dosage            int    `json:"dosage"`
	ConsumptionPerDay int    `json:"consumption_per_day"`
}

func (p Prescription) String() string {
	return fmt.Sprintf("%s (dosage %d, %d per day)", p.MedicineName, p.Dosage, p.ConsumptionPerDay)
}

// Appointment links a patient and a doctor by name. IDs are unique within a
// health book and assigned by the book, not by the appointment.
type Appointment struct {
	ID            int            `json:"id"`
	Doctor        string         `json:"doctor"`
	Patient       string         `json:"patient"`
	DateTime      time.Time      `json:"date_time"`
	Status        Status         `json:"status"`
	Comments      string         `json:"comments,omitempty"`
	Prescriptions []Prescription `json:"prescriptions,omitempty"`
}

func NewAppointment(id int, doctor, patient string, at time.Time, comments string) Appointment {
	return Appointment{
		ID:       id,
		Doctor:   doctor,
		Patient:  patient,
		DateTime: at,
		Status:   StatusUpcoming,
		Comments: comments,
	}
}

func (a Appointment) IsSameAppointment(other Appointment) bool {
	return a.ID == other.ID
}

func (a Appointment) HasPrescription(p Prescription) bool {
	for _, existing := range a.Prescriptions {
		if existing == p {
			return true
		}
	}
	return false
}

func (a Appointment) WithPrescription(p Prescription) Appointment {
	c := a.Clone()
	c.Prescriptions = append(c.Prescriptions, p)
	return c
}

// Complete returns a copy marked as completed.
func (a Appointment) Complete() Appointment {
	c := a.Clone()
	c.Status = StatusCompleted
	return c
}

func (a Appointment) Clone() Appointment {
	c := a
	if a.Prescriptions != nil {
		c.Prescriptions = make([]Prescription, len(a.Prescriptions))
		copy(c.Prescriptions, a.Prescriptions)
	}
	return c
}

func (a Appointment) Equal(other Appointment) bool {
	if a.ID != other.ID || a.Doctor != other.Doctor || a.Patient != other.Patient ||
		!a.DateTime.Equal(other.DateTime) || a.Status != other.Status || a.Comments != other.Comments {
		return false
	}
	if len(a.Prescriptions) != len(other.Prescriptions) {
		return false
	}
	for i := range a.Prescriptions {
		if a.Prescriptions[i] != other.Prescriptions[i] {
			return false
		}
	}
	return true
}

func (a Appointment) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s with Dr %s for %s [%s]", a.ID, a.DateTime.Format(DateTimeLayout), a.Doctor, a.Patient, a.Status)
	if a.Comments != "" {
		fmt.Fprintf(&b, " Comments: %s", a.Comments)
	}
	if len(a.Prescriptions) > 0 {
		b.WriteString(" Prescriptions:")
		for _, p := range a.Prescriptions {
			fmt.Fprintf(&b, " %s;", p)
		}
	}
	return b.String()
}
