package command

import (
	"strings"
	"testing"
	"time"

	"github.com/healthbook/healthbook/internal/domain/healthbook"
	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/model"
	"github.com/healthbook/healthbook/internal/platform/event"
	"github.com/healthbook/healthbook/internal/testutil"
)

func newManager(t *testing.T, b *healthbook.HealthBook) (*model.Manager, *[]event.Event) {
	t.Helper()
	bus := event.NewBus()
	var got []event.Event
	bus.Subscribe(event.KindHealthBookChanged, func(ev event.Event) { got = append(got, ev) })
	bus.Subscribe(event.KindPersonSelected, func(ev event.Event) { got = append(got, ev) })
	return model.NewManager(b, model.DefaultUserPrefs("data/test.json"), model.WithEvents(bus)), &got
}

func expectFailure(t *testing.T, c Command, m *model.Manager, want string) {
	t.Helper()
	before := m.HealthBook()
	_, err := c.Execute(m, NewHistory())
	if err == nil {
		t.Fatalf("expected failure %q, got success", want)
	}
	if !IsUserError(err) {
		t.Fatalf("expected *command.Error, got %T: %v", err, err)
	}
	if err.Error() != want {
		t.Errorf("expected message %q, got %q", want, err.Error())
	}
	if !m.HealthBook().Equal(before) {
		t.Error("failed command changed the health book")
	}
}

func findPerson(t *testing.T, m *model.Manager, name, phone string) record.Person {
	t.Helper()
	for _, p := range m.Persons() {
		if p.Name == name && p.Phone == phone {
			return p
		}
	}
	t.Fatalf("person %s (%s) not found", name, phone)
	return record.Person{}
}

func appointmentIn(list []record.Appointment, id int) (record.Appointment, bool) {
	return findAppointment(list, id)
}

var paracetamol = record.Prescription{MedicineName: "Paracetamol", Dosage: 2, ConsumptionPerDay: 3}

func TestAddPrescription_UnknownAppointment(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	c := &AddPrescription{AppointmentID: 99999, Prescription: paracetamol}
	expectFailure(t, c, m, MessageAppointmentDoesNotExist)
}

func TestAddPrescription_FilteredOutAppointment(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	m.UpdateFilteredAppointments(model.AppointmentsOf("Nobody"))
	c := &AddPrescription{AppointmentID: testutil.UpcomingAppointmentID, Prescription: paracetamol}
	expectFailure(t, c, m, MessageAppointmentDoesNotExist)
}

func TestAddPrescription_Success(t *testing.T) {
	m, events := newManager(t, testutil.TypicalHealthBook())
	m.UpdateFilteredPersons(model.PersonsWithRole(record.RoleDoctor))

	res, err := (&AddPrescription{AppointmentID: testutil.UpcomingAppointmentID, Prescription: paracetamol}).Execute(m, NewHistory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Feedback != "New Prescription added: Paracetamol" {
		t.Errorf("unexpected feedback %q", res.Feedback)
	}

	appt, ok := appointmentIn(m.Appointments(), testutil.UpcomingAppointmentID)
	if !ok || !appt.HasPrescription(paracetamol) {
		t.Fatalf("appointment in book lacks prescription: %v", appt)
	}
	alice := findPerson(t, m, "Alice Pauline", "94351253")
	if a, ok := appointmentIn(alice.UpcomingAppointments, testutil.UpcomingAppointmentID); !ok || !a.HasPrescription(paracetamol) {
		t.Error("patient record lacks the prescription")
	}
	carl := findPerson(t, m, "Carl Kurz", "95352563")
	if a, ok := appointmentIn(carl.UpcomingAppointments, testutil.UpcomingAppointmentID); !ok || !a.HasPrescription(paracetamol) {
		t.Error("doctor record lacks the prescription")
	}

	if got := len(m.FilteredPersons()); got != len(testutil.TypicalPersons()) {
		t.Errorf("expected person filter reset, got %d persons", got)
	}
	if got := len(m.FilteredAppointments()); got != len(testutil.TypicalAppointments()) {
		t.Errorf("expected appointment filter reset, got %d appointments", got)
	}
	if !m.CanUndoHealthBook() {
		t.Error("expected the change to be committed")
	}

	var selected *record.Person
	for _, ev := range *events {
		if ev.Kind == event.KindPersonSelected {
			p := ev.Payload.(record.Person)
			selected = &p
		}
	}
	if selected == nil || !selected.Equal(alice) {
		t.Errorf("expected person.selected with the edited patient, got %v", selected)
	}
}

func TestAddPrescription_DuplicateThenAllergy(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	c := &AddPrescription{AppointmentID: testutil.UpcomingAppointmentID, Prescription: paracetamol}
	if _, err := c.Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectFailure(t, c, m, MessageDuplicatePrescription)

	peanuts := &AddPrescription{
		AppointmentID: testutil.UpcomingAppointmentID,
		Prescription:  record.Prescription{MedicineName: "Peanuts", Dosage: 1, ConsumptionPerDay: 1},
	}
	expectFailure(t, peanuts, m, "This patient is allergic to peanuts")
}

func TestAddPrescription_DuplicateWinsOverAllergy(t *testing.T) {
	allergen := record.Prescription{MedicineName: "Peanuts", Dosage: 1, ConsumptionPerDay: 1}
	appt := testutil.UpcomingAppointment().WithPrescription(allergen)
	alice := testutil.Alice()
	alice = alice.WithAppointment(appt, appt)
	carl := testutil.Carl().WithAppointment(appt, appt)
	b, err := healthbook.FromData([]record.Person{alice, carl}, []record.Appointment{appt})
	if err != nil {
		t.Fatalf("build book: %v", err)
	}
	m, _ := newManager(t, b)

	c := &AddPrescription{AppointmentID: appt.ID, Prescription: allergen}
	expectFailure(t, c, m, MessageDuplicatePrescription)
}

func TestAddPrescription_CompletedNeedsPatientOnly(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	c := &AddPrescription{AppointmentID: testutil.CompletedAppointmentID, Prescription: paracetamol}
	if _, err := c.Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alice := findPerson(t, m, "Alice Pauline", "94351253")
	a, ok := appointmentIn(alice.PastAppointments, testutil.CompletedAppointmentID)
	if !ok || !a.HasPrescription(paracetamol) {
		t.Error("past appointment lacks the prescription")
	}
}

func TestAddPrescription_UpcomingWithoutDoctor(t *testing.T) {
	b := testutil.TypicalHealthBook()
	if err := b.SetPerson(testutil.Carl(), testutil.Carl().WithoutAppointment(testutil.UpcomingAppointmentID)); err != nil {
		t.Fatalf("setup: %v", err)
	}
	m, _ := newManager(t, b)
	c := &AddPrescription{AppointmentID: testutil.UpcomingAppointmentID, Prescription: paracetamol}
	expectFailure(t, c, m, MessageAppointmentDoesNotExist)
}

func TestAddPrescription_UndoRedo(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	before := m.HealthBook()
	c := &AddPrescription{AppointmentID: testutil.UpcomingAppointmentID, Prescription: paracetamol}
	if _, err := c.Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := m.HealthBook()

	if _, err := (Undo{}).Execute(m, NewHistory()); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !m.HealthBook().Equal(before) {
		t.Error("undo did not restore the prior snapshot")
	}
	if _, err := (Redo{}).Execute(m, NewHistory()); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if !m.HealthBook().Equal(after) {
		t.Error("redo did not restore the undone snapshot")
	}
	expectFailure(t, Redo{}, m, MessageRedoFailure)
}

func TestUndo_AtEarliestSnapshot(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	expectFailure(t, Undo{}, m, MessageUndoFailure)
}

func TestRegisterPatient(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	res, err := (&RegisterPatient{Patient: testutil.Amy()}).Execute(m, NewHistory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.Feedback, "New patient added: Amy Bee") {
		t.Errorf("unexpected feedback %q", res.Feedback)
	}
	if !m.HasPerson(testutil.Amy()) {
		t.Error("patient not added")
	}
	expectFailure(t, &RegisterPatient{Patient: testutil.Amy()}, m, MessageDuplicatePerson)
}

func TestRegisterDoctor(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	if _, err := (&RegisterDoctor{Doctor: testutil.Elle()}).Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := findPerson(t, m, "Elle Meyer", "94822240"); p.Role != record.RoleDoctor {
		t.Errorf("expected doctor, got %s", p.Role)
	}
	expectFailure(t, &RegisterDoctor{Doctor: testutil.Carl()}, m, MessageDuplicatePerson)
}

func TestAddAppointment(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	at := time.Date(2026, time.December, 1, 9, 0, 0, 0, time.UTC)
	c := &AddAppointment{
		Patient:  PersonRef{Name: "Daniel Meier"},
		Doctor:   PersonRef{Name: "Carl Kurz"},
		DateTime: at,
		Comments: "Checkup",
	}
	if _, err := c.Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const wantID = testutil.CompletedAppointmentID + 1
	appt, ok := appointmentIn(m.Appointments(), wantID)
	if !ok {
		t.Fatalf("expected appointment %d", wantID)
	}
	if appt.Status != record.StatusUpcoming || appt.Patient != "Daniel Meier" || appt.Doctor != "Carl Kurz" {
		t.Errorf("unexpected appointment %v", appt)
	}
	if !findPerson(t, m, "Daniel Meier", "87652533").HasAppointment(wantID) {
		t.Error("patient does not hold the appointment")
	}
	if !findPerson(t, m, "Carl Kurz", "95352563").HasAppointment(wantID) {
		t.Error("doctor does not hold the appointment")
	}

	clash := &AddAppointment{Patient: PersonRef{Name: "Alice Pauline"}, Doctor: PersonRef{Name: "Carl Kurz"}, DateTime: at}
	expectFailure(t, clash, m, "Carl Kurz already has an appointment at 2026-12-01 09:00")
}

func TestAddAppointment_PersonResolution(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	at := time.Date(2027, time.January, 4, 10, 0, 0, 0, time.UTC)

	unknown := &AddAppointment{Patient: PersonRef{Name: "Nobody"}, Doctor: PersonRef{Name: "Carl Kurz"}, DateTime: at}
	expectFailure(t, unknown, m, MessageInvalidPerson)

	wrongRole := &AddAppointment{Patient: PersonRef{Name: "Carl Kurz"}, Doctor: PersonRef{Name: "Carl Kurz"}, DateTime: at}
	expectFailure(t, wrongRole, m, MessageInvalidPerson)

	// Benson is both a patient and a doctor; role narrows him to one match.
	ok := &AddAppointment{Patient: PersonRef{Name: "Benson Meier"}, Doctor: PersonRef{Name: "Benson Meier"}, DateTime: at}
	if _, err := ok.Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCompleteAppointment(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	c := &CompleteAppointment{AppointmentID: testutil.UpcomingAppointmentID}
	if _, err := c.Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	appt, _ := appointmentIn(m.Appointments(), testutil.UpcomingAppointmentID)
	if appt.Status != record.StatusCompleted {
		t.Errorf("expected completed, got %s", appt.Status)
	}
	alice := findPerson(t, m, "Alice Pauline", "94351253")
	if _, ok := appointmentIn(alice.PastAppointments, appt.ID); !ok {
		t.Error("patient did not keep the completed appointment")
	}
	if _, ok := appointmentIn(alice.UpcomingAppointments, appt.ID); ok {
		t.Error("patient still lists the appointment as upcoming")
	}
	if findPerson(t, m, "Carl Kurz", "95352563").HasAppointment(appt.ID) {
		t.Error("doctor kept the completed appointment")
	}
	expectFailure(t, c, m, MessageAppointmentAlreadyDone)
}

func TestDeleteAppointment(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	expectFailure(t, &DeleteAppointment{AppointmentID: testutil.CompletedAppointmentID}, m, MessageDeleteCompletedAppointment)

	if _, err := (&DeleteAppointment{AppointmentID: testutil.UpcomingAppointmentID}).Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.HasAppointment(testutil.UpcomingAppointmentID) {
		t.Error("appointment still in book")
	}
	if findPerson(t, m, "Alice Pauline", "94351253").HasAppointment(testutil.UpcomingAppointmentID) {
		t.Error("patient still holds the appointment")
	}
	if findPerson(t, m, "Carl Kurz", "95352563").HasAppointment(testutil.UpcomingAppointmentID) {
		t.Error("doctor still holds the appointment")
	}
}

func TestAddMedicalHistory(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	c := &AddMedicalHistory{Patient: PersonRef{Name: "Daniel Meier"}, Allergies: []string{"Aspirin"}, Conditions: []string{"Asthma"}}
	if _, err := c.Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := findPerson(t, m, "Daniel Meier", "87652533").MedicalHistory
	if !h.HasAllergy("Aspirin") || !h.HasCondition("Asthma") {
		t.Errorf("unexpected medical history %+v", h)
	}

	expectFailure(t, &AddMedicalHistory{Patient: PersonRef{Name: "Daniel Meier"}}, m, MessageMedicalHistoryEmpty)
	expectFailure(t, &AddMedicalHistory{Patient: PersonRef{Name: "Carl Kurz"}, Allergies: []string{"x"}}, m, MessageInvalidPerson)
}

func TestRemark(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	res, err := (&Remark{Person: PersonRef{Name: "Daniel Meier"}, Remark: "Likes tea"}).Execute(m, NewHistory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.Feedback, "Added remark to Person: Daniel Meier") {
		t.Errorf("unexpected feedback %q", res.Feedback)
	}
	if got := findPerson(t, m, "Daniel Meier", "87652533").Remark; got != "Likes tea" {
		t.Errorf("expected remark, got %q", got)
	}

	res, err = (&Remark{Person: PersonRef{Name: "Daniel Meier"}}).Execute(m, NewHistory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.Feedback, "Removed remark from Person:") {
		t.Errorf("unexpected feedback %q", res.Feedback)
	}
}

func TestRemark_AmbiguousName(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	expectFailure(t, &Remark{Person: PersonRef{Name: "Benson Meier"}, Remark: "x"}, m, MessageDuplicatePersonName)

	c := &Remark{Person: PersonRef{Name: "Benson Meier", Phone: "87654321"}, Remark: "On call"}
	if _, err := c.Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := findPerson(t, m, "Benson Meier", "87654321").Remark; got != "On call" {
		t.Errorf("expected remark on the doctor, got %q", got)
	}
}

func TestDelete(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	expectFailure(t, &Delete{Person: PersonRef{Name: "Alice Pauline"}}, m,
		"Alice Pauline still has upcoming appointments. Delete or complete them first.")

	if _, err := (&Delete{Person: PersonRef{Name: "Daniel Meier"}}).Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.HasPerson(testutil.Daniel()) {
		t.Error("person not deleted")
	}
	expectFailure(t, &Delete{Person: PersonRef{Name: "Daniel Meier"}}, m, MessageInvalidPerson)
}

func TestList(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	res, err := (&List{Role: record.RoleDoctor}).Execute(m, NewHistory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Feedback != "Listed all doctors" {
		t.Errorf("unexpected feedback %q", res.Feedback)
	}
	for _, p := range m.FilteredPersons() {
		if p.Role != record.RoleDoctor {
			t.Errorf("unexpected %s in doctor list", p.Name)
		}
	}
	if _, err := (&List{}).Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(m.FilteredPersons()); got != len(testutil.TypicalPersons()) {
		t.Errorf("expected all persons, got %d", got)
	}
}

func TestListAppointments(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())

	res, err := (&ListAppointments{Name: "Daniel Meier"}).Execute(m, NewHistory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Feedback != "0 appointments listed!" {
		t.Errorf("unexpected feedback %q", res.Feedback)
	}
	c := &AddPrescription{AppointmentID: testutil.UpcomingAppointmentID, Prescription: paracetamol}
	expectFailure(t, c, m, MessageAppointmentDoesNotExist)

	res, err = (&ListAppointments{Name: "Carl Kurz"}).Execute(m, NewHistory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Feedback != "2 appointments listed!" {
		t.Errorf("unexpected feedback %q", res.Feedback)
	}
	if _, err := c.Execute(m, NewHistory()); err != nil {
		t.Fatalf("expected prescription on a listed appointment, got %v", err)
	}

	m.UpdateFilteredAppointments(model.AppointmentsOf("Nobody"))
	res, _ = (&ListAppointments{}).Execute(m, NewHistory())
	if res.Feedback != MessageListAppointmentsSuccess {
		t.Errorf("unexpected feedback %q", res.Feedback)
	}
	if got := len(m.FilteredAppointments()); got != len(testutil.TypicalAppointments()) {
		t.Errorf("expected all appointments, got %d", got)
	}
}

func TestFind(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	res, err := (&Find{Keywords: []string{"meier"}}).Execute(m, NewHistory())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Feedback != "3 persons listed!" {
		t.Errorf("unexpected feedback %q", res.Feedback)
	}
}

func TestShowHistory(t *testing.T) {
	h := NewHistory()
	res, _ := ShowHistory{}.Execute(nil, h)
	if res.Feedback != MessageNoHistory {
		t.Errorf("unexpected feedback %q", res.Feedback)
	}
	h.Add("list")
	h.Add("undo")
	res, _ = ShowHistory{}.Execute(nil, h)
	if want := "Entered commands (from most recent to earliest):\nundo\nlist"; res.Feedback != want {
		t.Errorf("expected %q, got %q", want, res.Feedback)
	}
	if got := h.Lines(); got[0] != "list" {
		t.Error("ShowHistory reordered the stored history")
	}
}

func TestClear_Undoable(t *testing.T) {
	m, _ := newManager(t, testutil.TypicalHealthBook())
	if _, err := (Clear{}).Execute(m, NewHistory()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Persons()) != 0 || len(m.Appointments()) != 0 {
		t.Error("book not cleared")
	}
	if _, err := (Undo{}).Execute(m, NewHistory()); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !m.HealthBook().Equal(testutil.TypicalHealthBook()) {
		t.Error("undo did not restore the cleared book")
	}
}

func TestHelpAndExit(t *testing.T) {
	res, _ := Help{}.Execute(nil, nil)
	if !res.ShowHelp {
		t.Error("help should set ShowHelp")
	}
	res, _ = Exit{}.Execute(nil, nil)
	if !res.Exit {
		t.Error("exit should set Exit")
	}
	if !strings.Contains(HelpText, AddPrescriptionWord) {
		t.Error("help text misses add-prescription")
	}
}
