// Package parser turns a command line typed by the user into a
// command.Command.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/healthbook/healthbook/internal/domain/record"
	"github.com/healthbook/healthbook/internal/logic/command"
)

const (
	MessageUnknownCommand       = "Unknown command"
	MessageInvalidCommandFormat = "Invalid command format! \n%s"
	MessageDuplicateFields      = "Multiple values specified for the following single-valued field(s): %s"
	MessageInvalidAppointmentID = "Appointment ID must be a positive integer."
	MessageInvalidDateTime      = "Date-time must be in the format YYYY-MM-DD HH:MM"
	MessageInvalidQuantity      = "%s must be a positive integer."
	MessageInvalidName          = "Names must contain only letters, digits and spaces, and must not be blank."
	MessageInvalidListScope     = "List scope must be patients or doctors."
)

// Error is a parse failure shown to the user as is.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsParseError reports whether err is a *parser.Error.
func IsParseError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

func invalidFormat(usage string) error {
	return &Error{Message: fmt.Sprintf(MessageInvalidCommandFormat, usage)}
}

func errorf(format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

type parseFunc func(args string) (command.Command, error)

var parsers = map[string]parseFunc{
	command.RegisterPatientWord:     parseRegisterPatient,
	command.RegisterDoctorWord:      parseRegisterDoctor,
	command.AddAppointmentWord:      parseAddAppointment,
	command.CompleteAppointmentWord: parseCompleteAppointment,
	command.DeleteAppointmentWord:   parseDeleteAppointment,
	command.AddPrescriptionWord:     parseAddPrescription,
	command.AddMedicalHistoryWord:   parseAddMedicalHistory,
	command.RemarkWord:              parseRemark,
	command.DeleteWord:              parseDelete,
	command.ListWord:                parseList,
	command.ListAppointmentsWord:    parseListAppointments,
	command.FindWord:                parseFind,
	command.HistoryWord:             noArgs(command.ShowHistory{}),
	command.UndoWord:                noArgs(command.Undo{}),
	command.RedoWord:                noArgs(command.Redo{}),
	command.ClearWord:               noArgs(command.Clear{}),
	command.HelpWord:                noArgs(command.Help{}),
	command.ExitWord:                noArgs(command.Exit{}),
}

// Parse reads the command word and hands the rest of line to that command's
// argument parser.
func Parse(line string) (command.Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, invalidFormat(command.HelpUsage)
	}
	word, args := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		word, args = line[:i], strings.ReplaceAll(line[i:], "\t", " ")
	}
	parse, ok := parsers[word]
	if !ok {
		return nil, &Error{Message: MessageUnknownCommand}
	}
	return parse(args)
}

// noArgs ignores trailing arguments, like the other argument-free commands of
// the shell.
func noArgs(c command.Command) parseFunc {
	return func(string) (command.Command, error) { return c, nil }
}

func parseRegisterPatient(args string) (command.Command, error) {
	m := Tokenize(args, PrefixName, PrefixPhone, PrefixEmail, PrefixAddress, PrefixTelegram, PrefixTag)
	if !m.Present(PrefixName, PrefixPhone, PrefixEmail, PrefixAddress) || m.Preamble() != "" {
		return nil, invalidFormat(command.RegisterPatientUsage)
	}
	if err := m.VerifyNoDuplicates(PrefixName, PrefixPhone, PrefixEmail, PrefixAddress, PrefixTelegram); err != nil {
		return nil, err
	}
	name, _ := m.Value(PrefixName)
	phone, _ := m.Value(PrefixPhone)
	email, _ := m.Value(PrefixEmail)
	address, _ := m.Value(PrefixAddress)
	telegram, _ := m.Value(PrefixTelegram)

	p := record.NewPatient(name, phone, email, address, "", m.AllValues(PrefixTag), telegram)
	if err := record.ValidatePerson(p); err != nil {
		return nil, &Error{Message: err.Error()}
	}
	return &command.RegisterPatient{Patient: p}, nil
}

func parseRegisterDoctor(args string) (command.Command, error) {
	m := Tokenize(args, PrefixName, PrefixPhone, PrefixEmail, PrefixAddress, PrefixTag)
	if !m.Present(PrefixName, PrefixPhone, PrefixEmail, PrefixAddress) || m.Preamble() != "" {
		return nil, invalidFormat(command.RegisterDoctorUsage)
	}
	if err := m.VerifyNoDuplicates(PrefixName, PrefixPhone, PrefixEmail, PrefixAddress); err != nil {
		return nil, err
	}
	name, _ := m.Value(PrefixName)
	phone, _ := m.Value(PrefixPhone)
	email, _ := m.Value(PrefixEmail)
	address, _ := m.Value(PrefixAddress)

	d := record.NewDoctor(name, phone, email, address, "", m.AllValues(PrefixTag))
	if err := record.ValidatePerson(d); err != nil {
		return nil, &Error{Message: err.Error()}
	}
	return &command.RegisterDoctor{Doctor: d}, nil
}

func parseAddAppointment(args string) (command.Command, error) {
	m := Tokenize(args, PrefixPatientName, PrefixPatientPhone, PrefixDoctorName, PrefixDoctorPhone, PrefixDateTime, PrefixComments)
	if !m.Present(PrefixPatientName, PrefixDoctorName, PrefixDateTime) || m.Preamble() != "" {
		return nil, invalidFormat(command.AddAppointmentUsage)
	}
	if err := m.VerifyNoDuplicates(PrefixPatientName, PrefixPatientPhone, PrefixDoctorName, PrefixDoctorPhone, PrefixDateTime, PrefixComments); err != nil {
		return nil, err
	}
	patient, err := personRef(m, PrefixPatientName, PrefixPatientPhone)
	if err != nil {
		return nil, err
	}
	doctor, err := personRef(m, PrefixDoctorName, PrefixDoctorPhone)
	if err != nil {
		return nil, err
	}
	raw, _ := m.Value(PrefixDateTime)
	at, err := ParseDateTime(raw)
	if err != nil {
		return nil, err
	}
	comments, _ := m.Value(PrefixComments)
	return &command.AddAppointment{Patient: patient, Doctor: doctor, DateTime: at, Comments: comments}, nil
}

func parseCompleteAppointment(args string) (command.Command, error) {
	id, err := appointmentID(strings.TrimSpace(args), command.CompleteAppointmentUsage)
	if err != nil {
		return nil, err
	}
	return &command.CompleteAppointment{AppointmentID: id}, nil
}

func parseDeleteAppointment(args string) (command.Command, error) {
	id, err := appointmentID(strings.TrimSpace(args), command.DeleteAppointmentUsage)
	if err != nil {
		return nil, err
	}
	return &command.DeleteAppointment{AppointmentID: id}, nil
}

func parseAddPrescription(args string) (command.Command, error) {
	m := Tokenize(args, PrefixMedicineName, PrefixDosage, PrefixConsumptionPerDay)
	if !m.Present(PrefixMedicineName, PrefixDosage, PrefixConsumptionPerDay) || m.Preamble() == "" {
		return nil, invalidFormat(command.AddPrescriptionUsage)
	}
	if err := m.VerifyNoDuplicates(PrefixMedicineName, PrefixDosage, PrefixConsumptionPerDay); err != nil {
		return nil, err
	}
	id, err := appointmentID(m.Preamble(), command.AddPrescriptionUsage)
	if err != nil {
		return nil, err
	}
	medicine, _ := m.Value(PrefixMedicineName)
	rawDosage, _ := m.Value(PrefixDosage)
	rawPerDay, _ := m.Value(PrefixConsumptionPerDay)
	dosage, err := positiveInt(rawDosage, "Dosage")
	if err != nil {
		return nil, err
	}
	perDay, err := positiveInt(rawPerDay, "Consumption per day")
	if err != nil {
		return nil, err
	}

	p := record.Prescription{MedicineName: medicine, Dosage: dosage, ConsumptionPerDay: perDay}
	if err := record.ValidatePrescription(p); err != nil {
		return nil, &Error{Message: err.Error()}
	}
	return &command.AddPrescription{AppointmentID: id, Prescription: p}, nil
}

func parseAddMedicalHistory(args string) (command.Command, error) {
	m := Tokenize(args, PrefixName, PrefixPhone, PrefixAllergy, PrefixCondition)
	if !m.Present(PrefixName) || m.Preamble() != "" {
		return nil, invalidFormat(command.AddMedicalHistoryUsage)
	}
	if err := m.VerifyNoDuplicates(PrefixName, PrefixPhone); err != nil {
		return nil, err
	}
	ref, err := personRef(m, PrefixName, PrefixPhone)
	if err != nil {
		return nil, err
	}
	allergies := nonBlank(m.AllValues(PrefixAllergy))
	conditions := nonBlank(m.AllValues(PrefixCondition))
	if len(allergies) == 0 && len(conditions) == 0 {
		return nil, invalidFormat(command.AddMedicalHistoryUsage)
	}
	return &command.AddMedicalHistory{Patient: ref, Allergies: allergies, Conditions: conditions}, nil
}

func parseRemark(args string) (command.Command, error) {
	m := Tokenize(args, PrefixName, PrefixPhone, PrefixRemark)
	if !m.Present(PrefixName, PrefixRemark) || m.Preamble() != "" {
		return nil, invalidFormat(command.RemarkUsage)
	}
	if err := m.VerifyNoDuplicates(PrefixName, PrefixPhone, PrefixRemark); err != nil {
		return nil, err
	}
	ref, err := personRef(m, PrefixName, PrefixPhone)
	if err != nil {
		return nil, err
	}
	remark, _ := m.Value(PrefixRemark)
	return &command.Remark{Person: ref, Remark: remark}, nil
}

func parseDelete(args string) (command.Command, error) {
	m := Tokenize(args, PrefixName, PrefixPhone)
	if !m.Present(PrefixName) || m.Preamble() != "" {
		return nil, invalidFormat(command.DeleteUsage)
	}
	if err := m.VerifyNoDuplicates(PrefixName, PrefixPhone); err != nil {
		return nil, err
	}
	ref, err := personRef(m, PrefixName, PrefixPhone)
	if err != nil {
		return nil, err
	}
	return &command.Delete{Person: ref}, nil
}

func parseList(args string) (command.Command, error) {
	scope := strings.TrimSpace(args)
	if scope == "" {
		return &command.List{}, nil
	}
	role, err := record.ParseRole(scope)
	if err != nil {
		return nil, &Error{Message: MessageInvalidListScope}
	}
	return &command.List{Role: role}, nil
}

func parseListAppointments(args string) (command.Command, error) {
	return &command.ListAppointments{Name: strings.Join(strings.Fields(args), " ")}, nil
}

func parseFind(args string) (command.Command, error) {
	keywords := strings.Fields(args)
	if len(keywords) == 0 {
		return nil, invalidFormat(command.FindUsage)
	}
	return &command.Find{Keywords: keywords}, nil
}

func personRef(m ArgumentMultimap, namePrefix, phonePrefix Prefix) (command.PersonRef, error) {
	name, _ := m.Value(namePrefix)
	if !record.ValidName(name) {
		return command.PersonRef{}, &Error{Message: MessageInvalidName}
	}
	phone, _ := m.Value(phonePrefix)
	return command.PersonRef{Name: name, Phone: phone}, nil
}

func appointmentID(s, usage string) (int, error) {
	if s == "" {
		return 0, invalidFormat(usage)
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, &Error{Message: MessageInvalidAppointmentID}
	}
	return id, nil
}

func positiveInt(s, field string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errorf(MessageInvalidQuantity, field)
	}
	return n, nil
}

// ParseDateTime reads a local date-time in record.DateTimeLayout.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(record.DateTimeLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, &Error{Message: MessageInvalidDateTime}
	}
	return t, nil
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
