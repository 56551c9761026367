package storage

import (
	"encoding/json"
	"fmt"

	"github.com/healthbook/healthbook/internal/domain/healthbook"
	"github.com/healthbook/healthbook/internal/domain/record"
)

const documentVersion = 1

// document is the stored form of a health book. Persons refer to their
// appointments by id; the appointments themselves are stored once.
type document struct {
	Version      int                  `json:"version"`
	Persons      []storedPerson       `json:"persons"`
	Appointments []record.Appointment `json:"appointments"`
}

type storedPerson struct {
	Role           record.Role           `json:"role"`
	Name           string                `json:"name"`
	Phone          string                `json:"phone"`
	Email          string                `json:"email"`
	Address        string                `json:"address"`
	Remark         string                `json:"remark,omitempty"`
	Tags           []string              `json:"tags,omitempty"`
	TelegramID     string                `json:"telegram_id,omitempty"`
	MedicalHistory record.MedicalHistory `json:"medical_history"`
	Upcoming       []int                 `json:"upcoming_appointments,omitempty"`
	Past           []int                 `json:"past_appointments,omitempty"`
}

func encodeHealthBook(b *healthbook.HealthBook) ([]byte, error) {
	doc := document{Version: documentVersion, Appointments: b.Appointments()}
	if doc.Appointments == nil {
		doc.Appointments = []record.Appointment{}
	}
	doc.Persons = make([]storedPerson, 0)
	for _, p := range b.Persons() {
		doc.Persons = append(doc.Persons, storedPerson{
			Role:           p.Role,
			Name:           p.Name,
			Phone:          p.Phone,
			Email:          p.Email,
			Address:        p.Address,
			Remark:         p.Remark,
			Tags:           p.Tags,
			TelegramID:     p.TelegramID,
			MedicalHistory: p.MedicalHistory,
			Upcoming:       appointmentIDs(p.UpcomingAppointments),
			Past:           appointmentIDs(p.PastAppointments),
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// decodeHealthBook parses and validates a stored document and re-links every
// person to the appointments it refers to.
func decodeHealthBook(data []byte) (*healthbook.HealthBook, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("document version %d is newer than supported version %d", doc.Version, documentVersion)
	}

	byID := make(map[int]record.Appointment, len(doc.Appointments))
	for _, a := range doc.Appointments {
		if err := record.ValidateAppointment(a); err != nil {
			return nil, fmt.Errorf("appointment %d: %w", a.ID, err)
		}
		byID[a.ID] = a
	}

	persons := make([]record.Person, 0, len(doc.Persons))
	for _, sp := range doc.Persons {
		p := record.Person{
			Role:           sp.Role,
			Name:           sp.Name,
			Phone:          sp.Phone,
			Email:          sp.Email,
			Address:        sp.Address,
			Remark:         sp.Remark,
			Tags:           sp.Tags,
			TelegramID:     sp.TelegramID,
			MedicalHistory: sp.MedicalHistory,
		}
		var err error
		if p.UpcomingAppointments, err = link(byID, sp.Upcoming, sp.Name); err != nil {
			return nil, err
		}
		if p.PastAppointments, err = link(byID, sp.Past, sp.Name); err != nil {
			return nil, err
		}
		if err := record.ValidatePerson(p); err != nil {
			return nil, fmt.Errorf("person %q: %w", sp.Name, err)
		}
		persons = append(persons, p)
	}

	return healthbook.FromData(persons, doc.Appointments)
}

func link(byID map[int]record.Appointment, ids []int, owner string) ([]record.Appointment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]record.Appointment, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("person %q refers to unknown appointment %d", owner, id)
		}
		out = append(out, a.Clone())
	}
	return out, nil
}

func appointmentIDs(list []record.Appointment) []int {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int, len(list))
	for i, a := range list {
		ids[i] = a.ID
	}
	return ids
}
