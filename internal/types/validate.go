//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names so messages match the file format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationError reports the required fields a record is missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Validate checks that the record is persistable: name and email are non-empty.
// All other fields may be empty.
func (r *PortfolioRecord) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{Fields: make([]string, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, fe.Field())
	}
	return verr
}

// IsValid is a convenience wrapper around Validate.
func (r *PortfolioRecord) IsValid() bool {
	return r.Validate() == nil
}
