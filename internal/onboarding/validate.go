package onboarding

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/career-coach/internal/types"
)

// ValidationError reports a step payload that failed local rules. It never
// reaches the network; wizard state is unchanged when it is returned.
type ValidationError struct {
	Step    int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("onboarding step %d: invalid %s: %s", e.Step, e.Field, e.Message)
}

// nameRe restricts names to letters, spaces, hyphens and apostrophes.
var nameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z '\-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Registration only fails for empty tags; these are constants.
	_ = v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("profession", func(fl validator.FieldLevel) bool {
		return slices.Contains(types.Professions(), fl.Field().String())
	})
	_ = v.RegisterValidation("career_option", func(fl validator.FieldLevel) bool {
		return slices.Contains(types.CareerCatalog(), fl.Field().String())
	})

	return v
}

type step1Payload struct {
	Name string `validate:"required,min=2,max=50,person_name"`
}

type step2Payload struct {
	Profession string `validate:"required,profession"`
}

type step3Payload struct {
	Choices []string `validate:"required,min=1,max=3,unique,dive,career_option"`
}

type step4Payload struct {
	CollegeName  string `validate:"required"`
	CollegeEmail string `validate:"omitempty,email"`
}

// stepError converts the first validator violation into a ValidationError.
func stepError(step int, field string, err error) error {
	if err == nil {
		return nil
	}

	message := "invalid value"
	var verrs validator.ValidationErrors
	if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "required":
			message = "must not be empty"
		case "min":
			message = fmt.Sprintf("too short or too few (min %s)", verrs[0].Param())
		case "max":
			message = fmt.Sprintf("too long or too many (max %s)", verrs[0].Param())
		case "person_name":
			message = "may only contain letters, spaces, hyphens and apostrophes"
		case "profession":
			message = "must be one of the listed professions"
		case "career_option":
			message = "is not in the career catalog"
		case "unique":
			message = "contains duplicate selections"
		case "email":
			message = "must be a valid email address"
		}
	}

	return &ValidationError{Step: step, Field: field, Message: message}
}

func asValidationErrors(err error, out *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*out = verrs
	}
	return ok
}
