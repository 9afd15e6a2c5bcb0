package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError maps JSON field names to a readable message
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

// Error lists the fields in name order so messages are stable
func (v *ValidationError) Error() string {
	fields := make([]string, 0, len(v.Errors))
	for field := range v.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(field + ": " + v.Errors[field])
	}
	return b.String()
}

// NewValidationError keeps the first failure reported for each field
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	v := &ValidationError{Errors: make(map[string]string, len(errs))}
	for _, fe := range errs {
		if _, seen := v.Errors[fe.Field()]; !seen {
			v.Errors[fe.Field()] = fieldMessage(fe)
		}
	}
	return v
}

// enumMessages describe the custom rules registered in registerCustomValidations
var enumMessages = map[string]string{
	"receipt_status":     "must be a valid receipt status (pending, verified, flagged)",
	"sentiment":          "must be a valid sentiment (positive, negative, neutral, mixed)",
	"reservation_status": "must be a valid reservation status (confirmed, completed, cancelled, no-show)",
	"template_category":  "must be a valid template category (booking, review, no-show)",
	"phone":              "must be a valid phone number",
	"clock":              "must be a time such as 18:30 or 6:30 PM",
	"isodate":            "must be a date in YYYY-MM-DD format",
	"email":              "must be a valid email address",
}

var comparisons = map[string]string{
	"gte": "greater than or equal to",
	"lte": "less than or equal to",
	"gt":  "greater than",
	"lt":  "less than",
}

func fieldMessage(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if msg, ok := enumMessages[tag]; ok {
		return field + " " + msg
	}
	if cmp, ok := comparisons[tag]; ok {
		return fmt.Sprintf("%s must be %s %s", field, cmp, param)
	}

	switch tag {
	case "required":
		return field + " is required"
	case "min", "max":
		bound := "at least"
		if tag == "max" {
			bound = "at most"
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be %s %s characters long", field, bound, param)
		}
		return fmt.Sprintf("%s must be %s %s", field, bound, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	default:
		return field + " is invalid"
	}
}

// AddError records message for field, replacing any earlier one
func (v *ValidationError) AddError(field, message string) {
	if v.Errors == nil {
		v.Errors = make(map[string]string)
	}
	v.Errors[field] = message
}

func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationError) GetFieldError(field string) (string, bool) {
	msg, ok := v.Errors[field]
	return msg, ok
}
