// Package validation registers the custom binding tags used by request DTOs
// on Gin's validator engine.
package validation

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar date format accepted for release dates.
const DateLayout = "2006-01-02"

// TagISODate validates "YYYY-MM-DD" or an RFC 3339 timestamp.
const TagISODate = "isodate"

// ParseDate parses a value accepted by the isodate tag.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

// Register installs the custom tags. It is safe to call more than once.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation(TagISODate, isoDate)
}
