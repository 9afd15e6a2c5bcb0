package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once

	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)
	// Wall-clock times are written either as "18:30" or "6:30 PM".
	clockRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$|^(1[0-2]|0?[1-9]):[0-5][0-9] ?(AM|PM|am|pm)$`)
)

// Get returns the shared validator with the custom rules registered
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		registerCustomValidations(validate)

		// Report JSON field names rather than Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// RegisterGinValidations registers the custom rules on gin's binding validator
func RegisterGinValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground validator")
	}
	registerCustomValidations(v)
	return nil
}

// ValidateStruct validates a struct and converts failures into a ValidationError
func ValidateStruct(s interface{}) error {
	if err := Get().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return NewValidationError(verrs)
		}
		return err
	}
	return nil
}

func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation("receipt_status", oneOfValidator("pending", "verified", "flagged"))
	_ = v.RegisterValidation("sentiment", oneOfValidator("positive", "negative", "neutral", "mixed"))
	_ = v.RegisterValidation("reservation_status", oneOfValidator("confirmed", "completed", "cancelled", "no-show"))
	_ = v.RegisterValidation("template_category", oneOfValidator("booking", "review", "no-show"))
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
}

func oneOfValidator(allowed ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		return false
	}
}
