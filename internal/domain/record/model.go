// Package record holds the health book entities: persons (patients and
// doctors), their medical history, appointments and prescriptions. Values are
// never mutated in place; every With* method returns an edited copy.
package record

import (
	"fmt"
	"strings"
)

// Role distinguishes the two kinds of person kept in the health book.
type Role int

const (
	RolePatient Role = iota + 1
	RoleDoctor
)

func (r Role) String() string {
	switch r {
	case RolePatient:
		return "patient"
	case RoleDoctor:
		return "doctor"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor:
		return true
	}
	return false
}

// ParseRole accepts the lower-case role names produced by String.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "patient", "patients":
		return RolePatient, nil
	case "doctor", "doctors":
		return RoleDoctor, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal role: invalid value %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Person is a patient or a doctor. Patient-only fields (TelegramID,
// MedicalHistory, PastAppointments) stay empty for doctors.
type Person struct {
	Role                 Role           `json:"role"`
	Name                 string         `json:"name"`
	Phone                string         `json:"phone"`
	Email                string         `json:"email"`
	Address              string         `json:"address"`
	Remark               string         `json:"remark"`
	Tags                 []string       `json:"tags,omitempty"`
	TelegramID           string         `json:"telegram_id,omitempty"`
	MedicalHistory       MedicalHistory `json:"medical_history"`
	UpcomingAppointments []Appointment  `json:"upcoming_appointments,omitempty"`
	PastAppointments     []Appointment  `json:"past_appointments,omitempty"`
}

// NewPatient builds a patient with an empty medical history and no
// appointments.
func NewPatient(name, phone, email, address, remark string, tags []string, telegramID string) Person {
	return Person{
		Role:       RolePatient,
		Name:       name,
		Phone:      phone,
		Email:      email,
		Address:    address,
		Remark:     remark,
		Tags:       uniqueStrings(tags),
		TelegramID: telegramID,
	}
}

// NewDoctor builds a doctor with no appointments.
func NewDoctor(name, phone, email, address, remark string, tags []string) Person {
	return Person{
		Role:    RoleDoctor,
		Name:    name,
		Phone:   phone,
		Email:   email,
		Address: address,
		Remark:  remark,
		Tags:    uniqueStrings(tags),
	}
}

// IsSamePerson reports whether p and other identify the same person: equal
// name and equal phone.
func (p Person) IsSamePerson(other Person) bool {
	return p.Name == other.Name && p.Phone == other.Phone
}

// RetainsPastAppointments is true for patients only. Doctors drop an
// appointment from their record once it is completed.
func (p Person) RetainsPastAppointments() bool {
	switch p.Role {
	case RolePatient:
		return true
	case RoleDoctor:
		return false
	}
	return false
}

// HasAppointment looks for id among the appointments this person keeps.
func (p Person) HasAppointment(id int) bool {
	if containsAppointment(p.UpcomingAppointments, id) {
		return true
	}
	return p.RetainsPastAppointments() && containsAppointment(p.PastAppointments, id)
}

// HasUpcomingAppointmentAt reports whether an upcoming appointment is booked
// at exactly the same date-time as a.
func (p Person) HasUpcomingAppointmentAt(a Appointment) bool {
	for _, existing := range p.UpcomingAppointments {
		if existing.DateTime.Equal(a.DateTime) {
			return true
		}
	}
	return false
}

func (p Person) WithRemark(remark string) Person {
	c := p.Clone()
	c.Remark = remark
	return c
}

func (p Person) WithMedicalHistory(h MedicalHistory) Person {
	c := p.Clone()
	c.MedicalHistory = h.Clone()
	return c
}

func (p Person) WithUpcomingAppointment(a Appointment) Person {
	c := p.Clone()
	c.UpcomingAppointments = append(c.UpcomingAppointments, a.Clone())
	return c
}

// WithAppointment replaces the appointment sharing target's id, wherever this
// person keeps it, with edited.
func (p Person) WithAppointment(target, edited Appointment) Person {
	c := p.Clone()
	replaceAppointment(c.UpcomingAppointments, target.ID, edited)
	replaceAppointment(c.PastAppointments, target.ID, edited)
	return c
}

func (p Person) WithoutAppointment(id int) Person {
	c := p.Clone()
	c.UpcomingAppointments = removeAppointment(c.UpcomingAppointments, id)
	c.PastAppointments = removeAppointment(c.PastAppointments, id)
	return c
}

// WithCompletedAppointment moves the appointment out of the upcoming list.
// Patients keep the completed copy in their past appointments; doctors do not.
func (p Person) WithCompletedAppointment(completed Appointment) Person {
	c := p.Clone()
	c.UpcomingAppointments = removeAppointment(c.UpcomingAppointments, completed.ID)
	switch c.Role {
	case RolePatient:
		c.PastAppointments = append(c.PastAppointments, completed.Clone())
	case RoleDoctor:
	}
	return c
}

func (p Person) Clone() Person {
	c := p
	c.Tags = cloneStrings(p.Tags)
	c.MedicalHistory = p.MedicalHistory.Clone()
	c.UpcomingAppointments = cloneAppointments(p.UpcomingAppointments)
	c.PastAppointments = cloneAppointments(p.PastAppointments)
	return c
}

// Equal is full value equality, unlike IsSamePerson.
func (p Person) Equal(other Person) bool {
	return p.Role == other.Role &&
		p.Name == other.Name &&
		p.Phone == other.Phone &&
		p.Email == other.Email &&
		p.Address == other.Address &&
		p.Remark == other.Remark &&
		p.TelegramID == other.TelegramID &&
		sameStringSet(p.Tags, other.Tags) &&
		p.MedicalHistory.Equal(other.MedicalHistory) &&
		equalAppointments(p.UpcomingAppointments, other.UpcomingAppointments) &&
		equalAppointments(p.PastAppointments, other.PastAppointments)
}

func (p Person) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	fmt.Fprintf(&b, " Phone: %s Email: %s Address: %s", p.Phone, p.Email, p.Address)
	if p.Remark != "" {
		fmt.Fprintf(&b, " Remark: %s", p.Remark)
	}
	if len(p.Tags) > 0 {
		b.WriteString(" Tags: ")
		for _, t := range p.Tags {
			fmt.Fprintf(&b, "[%s]", t)
		}
	}
	if p.Role == RolePatient && p.TelegramID != "" {
		fmt.Fprintf(&b, " Telegram: %s", p.TelegramID)
	}
	return b.String()
}

// MedicalHistory is owned by exactly one patient.
type MedicalHistory struct {
	Allergies  []string `json:"allergies,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
}

// WithAllergies returns a copy with the allergies not already present
// appended, in order.
func (h MedicalHistory) WithAllergies(allergies ...string) MedicalHistory {
	c := h.Clone()
	c.Allergies = uniqueStrings(append(c.Allergies, allergies...))
	return c
}

func (h MedicalHistory) WithConditions(conditions ...string) MedicalHistory {
	c := h.Clone()
	c.Conditions = uniqueStrings(append(c.Conditions, conditions...))
	return c
}

func (h MedicalHistory) HasAllergy(allergy string) bool {
	return containsString(h.Allergies, allergy)
}

func (h MedicalHistory) HasCondition(condition string) bool {
	return containsString(h.Conditions, condition)
}

// AllergyMatching returns the recorded allergy whose text matches medicine,
// ignoring case.
func (h MedicalHistory) AllergyMatching(medicine string) (string, bool) {
	for _, a := range h.Allergies {
		if strings.EqualFold(a, medicine) {
			return a, true
		}
	}
	return "", false
}

func (h MedicalHistory) Clone() MedicalHistory {
	return MedicalHistory{
		Allergies:  cloneStrings(h.Allergies),
		Conditions: cloneStrings(h.Conditions),
	}
}

func (h MedicalHistory) Equal(other MedicalHistory) bool {
	return sameStringSet(h.Allergies, other.Allergies) && sameStringSet(h.Conditions, other.Conditions)
}

func containsAppointment(list []Appointment, id int) bool {
	for _, a := range list {
		if a.ID == id {
			return true
		}
	}
	return false
}

func replaceAppointment(list []Appointment, id int, edited Appointment) {
	for i := range list {
		if list[i].ID == id {
			list[i] = edited.Clone()
		}
	}
}

func removeAppointment(list []Appointment, id int) []Appointment {
	if list == nil {
		return nil
	}
	out := make([]Appointment, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func cloneAppointments(list []Appointment) []Appointment {
	if list == nil {
		return nil
	}
	out := make([]Appointment, len(list))
	for i, a := range list {
		out[i] = a.Clone()
	}
	return out
}

func equalAppointments(a, b []Appointment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func uniqueStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s))
	for _, v := range s {
		if !containsString(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func containsString(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

// sameStringSet compares two sets ignoring order.
func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !containsString(b, v) {
			return false
		}
	}
	return true
}
