package form

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names a control of the profile form.
type Field string

const (
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldFullName  Field = "full_name"
	FieldAge       Field = "age"
	FieldEmail     Field = "email"
	FieldSkills    Field = "skills"
)

// MinimumAge is the lowest accepted age.
const MinimumAge = 18

// Kind is the validation failure reported for one field.
type Kind string

const (
	KindNone     Kind = ""
	KindRequired Kind = "required"
	KindEmail    Kind = "email"
	KindMin      Kind = "min"
)

// Result holds the validation outcome of every validated field.
type Result map[Field]Kind

// Valid reports whether no field has a failure.
func (r Result) Valid() bool {
	for _, k := range r {
		if k != KindNone {
			return false
		}
	}
	return true
}

// Kind returns the failure for f, KindNone when f passed or was not validated.
func (r Result) Kind(f Field) Kind {
	return r[f]
}

// Invalid returns the failing fields in form order.
func (r Result) Invalid() []Field {
	var out []Field
	for _, f := range fieldOrder {
		if r[f] != KindNone {
			out = append(out, f)
		}
	}
	return out
}

var fieldOrder = []Field{FieldFirstName, FieldLastName, FieldAge, FieldEmail, FieldSkills}

// values is the validated view of the form. Age is nil when the raw input is
// empty or not a number, which is reported as required.
type values struct {
	FirstName string   `form:"first_name" validate:"required"`
	LastName  string   `form:"last_name"  validate:"required"`
	Age       *int     `form:"age"        validate:"required,min=18"`
	Email     string   `form:"email"      validate:"required,email"`
	Skills    []string `form:"skills"     validate:"min=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name := sf.Tag.Get("form")
		if name == "" || name == "-" {
			return sf.Name
		}
		return name
	})
	return v
}

// parseAge converts raw age input. Empty or non-numeric input yields nil.
func parseAge(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// validateValues runs the field rules. Skills are only checked when withSkills is set.
func validateValues(v values, withSkills bool) Result {
	res := Result{
		FieldFirstName: KindNone,
		FieldLastName:  KindNone,
		FieldAge:       KindNone,
		FieldEmail:     KindNone,
	}
	var err error
	if withSkills {
		res[FieldSkills] = KindNone
		err = validate.Struct(v)
	} else {
		err = validate.StructExcept(v, "Skills")
	}
	if err == nil {
		return res
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only InvalidValidationError is left, which cannot happen for a struct value.
		return res
	}
	for _, fe := range verrs {
		res[Field(fe.Field())] = kindOf(fe)
	}
	return res
}

func kindOf(fe validator.FieldError) Kind {
	switch fe.Tag() {
	case "required":
		return KindRequired
	case "email":
		return KindEmail
	case "min":
		// An empty collection fails min=1; it is reported as required.
		if fe.Kind() == reflect.Slice {
			return KindRequired
		}
		return KindMin
	default:
		return KindRequired
	}
}
