package gradebook

import (
	"github.com/go-playground/validator/v10"

	"github.com/tallybook/tally/internal/validate"
)

var (
	classYearTag  = "classyear"
	classYearText = "{0} must be one of 1º ano to 9º ano"
)

func init() {
	_ = validate.Validate.RegisterValidation(classYearTag, classYearValidation)
	validate.RegisterCustomTranslation(classYearTag, classYearText)
}

// classYearValidation checks that the class is one of DefaultClassYears.
func classYearValidation(fl validator.FieldLevel) bool {
	_, ok := classSubjects(fl.Field().String())
	return ok
}

func classSubjects(name string) ([]string, bool) {
	for _, c := range DefaultClassYears() {
		if c.Name == name {
			return c.Subjects, true
		}
	}
	return nil, false
}
