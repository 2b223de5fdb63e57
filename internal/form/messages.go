package form

const (
	msgRequiredDefault = "This field is required"
	msgInvalidEmail    = "Enter a valid email"
	msgBelowMinimumAge = "Age must be greater than or equal to 18"
)

var requiredMessages = map[Field]string{
	FieldFirstName: "First Name is required",
	FieldLastName:  "Last Name is required",
	FieldAge:       "Age is required",
	FieldEmail:     "Email is required",
	FieldSkills:    "At least one skill is required",
}

// ErrorMessage maps a field's failure kind to the text shown next to the control.
// KindNone yields an empty string.
func ErrorMessage(field Field, kind Kind) string {
	switch kind {
	case KindNone:
		return ""
	case KindRequired:
		if msg, ok := requiredMessages[field]; ok {
			return msg
		}
		return msgRequiredDefault
	case KindEmail:
		return msgInvalidEmail
	case KindMin:
		return msgBelowMinimumAge
	default:
		return msgRequiredDefault
	}
}
