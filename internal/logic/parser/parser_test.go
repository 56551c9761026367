package parser

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/logic/command"
)

func TestTokenize_PreambleAndRepeats(t *testing.T) {
	m := Tokenize(" 10005 m/Paracetamol d/2 c/3 t/a t/b", PrefixMedicineName, PrefixDosage, PrefixConsumptionPerDay, PrefixTag)
	if m.Preamble() != "10005" {
		t.Errorf("expected preamble 10005, got %q", m.Preamble())
	}
	if v, _ := m.Value(PrefixMedicineName); v != "Paracetamol" {
		t.Errorf("expected Paracetamol, got %q", v)
	}
	if got := m.AllValues(PrefixTag); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}
}

func TestTokenize_PrefixNeedsLeadingSpace(t *testing.T) {
	m := Tokenize(" pn/Alex pp/123 dn/Irfan", PrefixPhone, PrefixPatientName, PrefixPatientPhone, PrefixDoctorName)
	if _, ok := m.Value(PrefixPhone); ok {
		t.Error("pp/ must not be read as p/")
	}
	if v, _ := m.Value(PrefixPatientPhone); v != "123" {
		t.Errorf("expected 123, got %q", v)
	}
	m = Tokenize(" a/Street n/o", PrefixAddress)
	if v, _ := m.Value(PrefixAddress); v != "Street n/o" {
		t.Errorf("unknown prefixes stay in the value, got %q", v)
	}
}

func TestTokenize_EmptyValue(t *testing.T) {
	m := Tokenize(" n/Alex r/", PrefixName, PrefixRemark)
	v, ok := m.Value(PrefixRemark)
	if !ok || v != "" {
		t.Errorf("expected present empty remark, got %q %v", v, ok)
	}
}

func TestParse_UnknownAndEmpty(t *testing.T) {
	if _, err := Parse("teleport now"); err == nil || err.Error() != MessageUnknownCommand {
		t.Errorf("expected unknown command, got %v", err)
	}
	_, err := Parse("   ")
	if !IsParseError(err) || !strings.HasPrefix(err.Error(), "Invalid command format! \n") {
		t.Errorf("expected invalid format, got %v", err)
	}
}

func TestParse_AddPrescription(t *testing.T) {
	c, err := Parse("add-prescription 10005 m/Paracetamol d/2 c/3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &command.AddPrescription{
		AppointmentID: 10005,
		Prescription:  record.Prescription{MedicineName: "Paracetamol", Dosage: 2, ConsumptionPerDay: 3},
	}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("expected %+v, got %+v", want, c)
	}
}

func TestParse_AddPrescriptionErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"missing id", "add-prescription m/Paracetamol d/2 c/3", "Invalid command format! \n" + command.AddPrescriptionUsage},
		{"missing dosage", "add-prescription 10005 m/Paracetamol c/3", "Invalid command format! \n" + command.AddPrescriptionUsage},
		{"bad id", "add-prescription abc m/Paracetamol d/2 c/3", MessageInvalidAppointmentID},
		{"zero dosage", "add-prescription 10005 m/Paracetamol d/0 c/3", "Dosage must be a positive integer."},
		{"repeated medicine", "add-prescription 10005 m/A m/B d/1 c/3", "Multiple values specified for the following single-valued field(s): m/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestParse_RegisterPatient(t *testing.T) {
	c, err := Parse("register-patient n/Amy Bee p/11111111 e/amy@example.com a/Block 312 tg/@amybee t/friend t/friend")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rp, ok := c.(*command.RegisterPatient)
	if !ok {
		t.Fatalf("expected *RegisterPatient, got %T", c)
	}
	p := rp.Patient
	if p.Role != record.RolePatient || p.Name != "Amy Bee" || p.TelegramID != "@amybee" || p.Address != "Block 312" {
		t.Errorf("unexpected patient %+v", p)
	}
	if len(p.Tags) != 1 {
		t.Errorf("expected duplicate tags collapsed, got %v", p.Tags)
	}
}

func TestParse_RegisterInvalidFields(t *testing.T) {
	if _, err := Parse("register-patient n/Amy p/12 e/amy@example.com a/x"); !IsParseError(err) {
		t.Errorf("expected phone validation error, got %v", err)
	}
	if _, err := Parse("register-doctor n/Amy p/123 e/not-an-email a/x"); !IsParseError(err) {
		t.Errorf("expected email validation error, got %v", err)
	}
	if _, err := Parse("register-doctor n/Amy p/123 e/amy@example.com"); err == nil ||
		err.Error() != "Invalid command format! \n"+command.RegisterDoctorUsage {
		t.Errorf("expected invalid format, got %v", err)
	}
}

func TestParse_AddAppointment(t *testing.T) {
	c, err := Parse("add-appointment pn/Alex Yeoh dn/Irfan Ibrahim dp/92492021 dt/2026-11-02 14:30 cm/Blood test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &command.AddAppointment{
		Patient:  command.PersonRef{Name: "Alex Yeoh"},
		Doctor:   command.PersonRef{Name: "Irfan Ibrahim", Phone: "92492021"},
		DateTime: time.Date(2026, time.November, 2, 14, 30, 0, 0, time.Local),
		Comments: "Blood test",
	}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("expected %+v, got %+v", want, c)
	}

	if _, err := Parse("add-appointment pn/Alex dn/Irfan dt/tomorrow"); err == nil || err.Error() != MessageInvalidDateTime {
		t.Errorf("expected date-time error, got %v", err)
	}
}

func TestParse_PersonCommands(t *testing.T) {
	c, err := Parse("remark n/Alex Yeoh p/87438807 r/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (&command.Remark{Person: command.PersonRef{Name: "Alex Yeoh", Phone: "87438807"}}); !reflect.DeepEqual(c, want) {
		t.Errorf("expected %+v, got %+v", want, c)
	}

	c, err = Parse("add-medical-history n/Alex Yeoh al/Penicillin al/Aspirin co/Asthma")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mh := c.(*command.AddMedicalHistory)
	if !reflect.DeepEqual(mh.Allergies, []string{"Penicillin", "Aspirin"}) || !reflect.DeepEqual(mh.Conditions, []string{"Asthma"}) {
		t.Errorf("unexpected medical history command %+v", mh)
	}
	if _, err := Parse("add-medical-history n/Alex Yeoh"); !IsParseError(err) {
		t.Errorf("expected invalid format, got %v", err)
	}

	if _, err := Parse("delete p/123"); !IsParseError(err) {
		t.Errorf("expected invalid format, got %v", err)
	}
	if _, err := Parse("delete n/!!"); err == nil || err.Error() != MessageInvalidName {
		t.Errorf("expected invalid name, got %v", err)
	}
}

func TestParse_SimpleCommands(t *testing.T) {
	tests := []struct {
		line string
		want command.Command
	}{
		{"list", &command.List{}},
		{"list doctors", &command.List{Role: record.RoleDoctor}},
		{"list-appointments", &command.ListAppointments{}},
		{"list-appointments  Alex   Yeoh ", &command.ListAppointments{Name: "Alex Yeoh"}},
		{"find alex  yeoh", &command.Find{Keywords: []string{"alex", "yeoh"}}},
		{"complete-appointment 10000", &command.CompleteAppointment{AppointmentID: 10000}},
		{"delete-appointment 10000", &command.DeleteAppointment{AppointmentID: 10000}},
		{"undo", command.Undo{}},
		{"redo extra", command.Redo{}},
		{"history", command.ShowHistory{}},
		{"clear", command.Clear{}},
		{"help", command.Help{}},
		{"exit", command.Exit{}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}

	if _, err := Parse("list nurses"); err == nil || err.Error() != MessageInvalidListScope {
		t.Errorf("expected list scope error, got %v", err)
	}
	if _, err := Parse("find"); !IsParseError(err) {
		t.Errorf("expected invalid format, got %v", err)
	}
}
