package healthbook

import (
	"errors"
	"testing"
	"time"

	"github.com/healthbook/healthbook/internal/domain/record"
)

func alice() record.Person {
	return record.NewPatient("Alice Pauline", "94351253", "alice@example.com", "123 Jurong West", "", nil, "")
}

func carl() record.Person {
	return record.NewDoctor("Carl Kurz", "95352563", "carl@example.com", "wall street", "", nil)
}

func appt(id int) record.Appointment {
	return record.NewAppointment(id, "Carl Kurz", "Alice Pauline", time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC), "")
}

func TestAddPerson_Duplicate(t *testing.T) {
	b := New()
	if err := b.AddPerson(alice()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dup := alice().WithRemark("different remark, same identity")
	if err := b.AddPerson(dup); !errors.Is(err, ErrDuplicatePerson) {
		t.Errorf("expected ErrDuplicatePerson, got %v", err)
	}
}

func TestSetPerson_NotFound(t *testing.T) {
	b := New()
	if err := b.SetPerson(alice(), alice()); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("expected ErrPersonNotFound, got %v", err)
	}
}

func TestSetPerson_CollidesWithOther(t *testing.T) {
	b := New()
	_ = b.AddPerson(alice())
	_ = b.AddPerson(carl())

	edited := alice()
	edited.Name = "Carl Kurz"
	edited.Phone = "95352563"
	if err := b.SetPerson(alice(), edited); !errors.Is(err, ErrDuplicatePerson) {
		t.Errorf("expected ErrDuplicatePerson, got %v", err)
	}
}

func TestSetPerson_SameIdentity(t *testing.T) {
	b := New()
	_ = b.AddPerson(alice())
	if err := b.SetPerson(alice(), alice().WithRemark("ok")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := b.Persons()[0].Remark; got != "ok" {
		t.Errorf("remark = %q, want ok", got)
	}
}

func TestRemovePerson(t *testing.T) {
	b := New()
	_ = b.AddPerson(alice())
	_ = b.AddPerson(carl())
	if err := b.RemovePerson(alice()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.HasPerson(alice()) {
		t.Error("alice still present")
	}
	if !b.HasPerson(carl()) {
		t.Error("carl removed by mistake")
	}
	if err := b.RemovePerson(alice()); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("expected ErrPersonNotFound, got %v", err)
	}
}

func TestAppointments_UniqueIDs(t *testing.T) {
	b := New()
	if err := b.AddAppointment(appt(10000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.AddAppointment(appt(10000)); !errors.Is(err, ErrDuplicateAppointment) {
		t.Errorf("expected ErrDuplicateAppointment, got %v", err)
	}
	_ = b.AddAppointment(appt(10001))
	if err := b.SetAppointment(appt(10000), appt(10001)); !errors.Is(err, ErrDuplicateAppointment) {
		t.Errorf("expected ErrDuplicateAppointment, got %v", err)
	}
	if err := b.SetAppointment(appt(20000), appt(20000)); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestNextAppointmentID(t *testing.T) {
	b := New()
	if got := b.NextAppointmentID(); got != FirstAppointmentID {
		t.Errorf("empty book NextAppointmentID = %d, want %d", got, FirstAppointmentID)
	}
	_ = b.AddAppointment(appt(10004))
	_ = b.AddAppointment(appt(10001))
	if got := b.NextAppointmentID(); got != 10005 {
		t.Errorf("NextAppointmentID = %d, want 10005", got)
	}
}

func TestClone_Independent(t *testing.T) {
	b := New()
	_ = b.AddPerson(alice())
	_ = b.AddAppointment(appt(10000))

	c := b.Clone()
	if !c.Equal(b) {
		t.Fatal("clone should equal original")
	}
	_ = c.SetAppointment(appt(10000), appt(10000).WithPrescription(record.Prescription{MedicineName: "Paracetamol", Dosage: 1, ConsumptionPerDay: 1}))
	if c.Equal(b) {
		t.Error("mutating clone changed equality with original")
	}
	got, _ := b.FindAppointment(10000)
	if len(got.Prescriptions) != 0 {
		t.Error("original book mutated through clone")
	}
}

func TestPersons_ReturnsCopy(t *testing.T) {
	b := New()
	_ = b.AddPerson(alice())
	ps := b.Persons()
	ps[0].Remark = "mutated"
	if b.Persons()[0].Remark != "" {
		t.Error("Persons() exposed internal storage")
	}
}

func TestFromData_RejectsDuplicates(t *testing.T) {
	if _, err := FromData([]record.Person{alice(), alice()}, nil); !errors.Is(err, ErrDuplicatePerson) {
		t.Errorf("expected ErrDuplicatePerson, got %v", err)
	}
	if _, err := FromData(nil, []record.Appointment{appt(1), appt(1)}); !errors.Is(err, ErrDuplicateAppointment) {
		t.Errorf("expected ErrDuplicateAppointment, got %v", err)
	}
}

func TestResetData(t *testing.T) {
	b := New()
	_ = b.AddPerson(alice())
	other := New()
	_ = other.AddPerson(carl())
	b.ResetData(other)
	if b.HasPerson(alice()) || !b.HasPerson(carl()) {
		t.Errorf("ResetData did not replace content: %v", b.Persons())
	}
}

func TestSample_IsConsistent(t *testing.T) {
	b := Sample()
	if len(b.Persons()) != 5 {
		t.Errorf("expected 5 sample persons, got %d", len(b.Persons()))
	}
	for _, p := range b.Persons() {
		if err := record.ValidatePerson(p); err != nil {
			t.Errorf("sample person %s invalid: %v", p.Name, err)
		}
	}
	a, ok := b.FindAppointment(FirstAppointmentID)
	if !ok {
		t.Fatal("sample appointment missing")
	}
	if a.Status != record.StatusUpcoming {
		t.Errorf("sample appointment status = %v", a.Status)
	}
}
