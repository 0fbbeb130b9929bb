package intake

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Submission holds the wizard's collected answers after validation.
type Submission struct {
	Name          string `validate:"required"`
	MobileNumber  string `validate:"required,numeric,len=10"`
	Location      string `validate:"required"`
	ComplaintType string `validate:"required"`
	Description   string `validate:"required"`
}

var (
	errEmptyResponse = errors.New("please provide a response")
	errMobileFormat  = errors.New("please enter a valid mobile number")
	errMobileLength  = errors.New("mobile number should be 10 digits")
)

// cleanMobile strips the separators people habitually dictate or type into
// phone numbers before the digits are validated.
func cleanMobile(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "+", "")
	return r.Replace(s)
}

// checkRequired rejects empty answers.
func checkRequired(value string) error {
	if err := validate.Var(value, "required"); err != nil {
		return errEmptyResponse
	}
	return nil
}

// checkMobile validates a raw mobile-number answer and returns its cleaned
// form. Separators are stripped first; what remains must be exactly ten
// digits.
func checkMobile(raw string) (string, error) {
	cleaned := cleanMobile(raw)
	if err := validate.Var(cleaned, "required,numeric"); err != nil {
		return "", errMobileFormat
	}
	if err := validate.Var(cleaned, "len=10"); err != nil {
		return "", errMobileLength
	}
	return cleaned, nil
}

// Validate runs the struct-level check; the wizard validates field by field
// as answers come in, and this is the final gate before anything is written.
func (s Submission) Validate() error {
	return validate.Struct(s)
}
