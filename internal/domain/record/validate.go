package record

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	namePattern     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ]*$`)
	phonePattern    = regexp.MustCompile(`^[0-9]{3,}$`)
	tagPattern      = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	telegramPattern = regexp.MustCompile(`^@?[A-Za-z0-9_]{1,32}$`)
)

var (
	errInvalidRole       = errors.New("must be patient or doctor")
	errInvalidStatus     = errors.New("must be UPCOMING or COMPLETED")
	errDoctorPatientData = errors.New("doctors cannot carry patient-only details")
)

// Validate implements validation.Validatable.
func (p Person) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Role, validation.By(validRole)),
		validation.Field(&p.Name, validation.Required, validation.Match(namePattern).Error("must contain only letters, digits and spaces")),
		validation.Field(&p.Phone, validation.Required, validation.Match(phonePattern).Error("must be at least 3 digits")),
		validation.Field(&p.Email, validation.Required, is.EmailFormat),
		validation.Field(&p.Address, validation.Required),
		validation.Field(&p.Tags, validation.Each(validation.Match(tagPattern).Error("must be alphanumeric"))),
		validation.Field(&p.TelegramID, validation.Match(telegramPattern)),
		validation.Field(&p.MedicalHistory, validation.By(func(interface{}) error {
			if p.Role == RoleDoctor && (len(p.MedicalHistory.Allergies) > 0 || len(p.MedicalHistory.Conditions) > 0) {
				return errDoctorPatientData
			}
			return nil
		})),
		validation.Field(&p.PastAppointments, validation.By(func(interface{}) error {
			if p.Role == RoleDoctor && len(p.PastAppointments) > 0 {
				return errDoctorPatientData
			}
			return nil
		})),
	)
}

func (a Appointment) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required, validation.Min(1)),
		validation.Field(&a.Doctor, validation.Required, validation.Match(namePattern)),
		validation.Field(&a.Patient, validation.Required, validation.Match(namePattern)),
		validation.Field(&a.DateTime, validation.Required),
		validation.Field(&a.Status, validation.By(validStatus)),
		validation.Field(&a.Prescriptions),
	)
}

func (p Prescription) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.MedicineName, validation.Required, validation.Match(namePattern).Error("must contain only letters, digits and spaces")),
		validation.Field(&p.Dosage, validation.Required, validation.Min(1)),
		validation.Field(&p.ConsumptionPerDay, validation.Required, validation.Min(1)),
	)
}

// ValidatePerson checks every field of p and, for patients, the telegram id.
// Doctors must not carry a telegram id.
func ValidatePerson(p Person) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Role == RoleDoctor && p.TelegramID != "" {
		return validation.Errors{"telegram_id": errDoctorPatientData}
	}
	return nil
}

func ValidateAppointment(a Appointment) error {
	return a.Validate()
}

func ValidatePrescription(p Prescription) error {
	return p.Validate()
}

// ValidName reports whether s is acceptable as a person or medicine name.
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}

func validRole(v interface{}) error {
	r, _ := v.(Role)
	if !r.Valid() {
		return errInvalidRole
	}
	return nil
}

func validStatus(v interface{}) error {
	s, _ := v.(Status)
	if !s.Valid() {
		return errInvalidStatus
	}
	return nil
}
