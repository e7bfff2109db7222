package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-social-api/pkg/apierror"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

var messages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"min":      "%s must be at least %s characters long",
	"max":      "%s must be no longer than %s characters",
	"uuid":     "%s must be a valid id",
}

func message(e validator.FieldError) string {
	if msg, ok := messages[e.Tag()]; ok {
		if strings.Count(msg, "%s") == 2 {
			return fmt.Sprintf(msg, e.Field(), e.Param())
		}
		return fmt.Sprintf(msg, e.Field())
	}
	return fmt.Sprintf("%s is invalid", e.Field())
}

// Fields validates s and returns a json field name to message map. An empty
// map means s is valid.
func Fields(s any) map[string]string {
	out := map[string]string{}

	var errs validator.ValidationErrors
	if err := validate.Struct(s); errors.As(err, &errs) {
		for _, e := range errs {
			out[e.Field()] = message(e)
		}
	}
	return out
}

// Struct validates s and reports the first failing field as a validation
// error, listing every failing field in the details.
func Struct(s any) error {
	fields := Fields(s)
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return apierror.Validation(fields[names[0]], strings.Join(names, ","))
}
