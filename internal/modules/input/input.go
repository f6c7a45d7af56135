// Package input decodes the loosely-typed submitted data of a module action
// into each handler's typed input struct and validates required fields.
// Handlers declare their schema statically with mapstructure and validate
// tags instead of probing map keys at runtime.
package input

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	dErrors "atende/pkg/domain-errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report submitted field names, not Go struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Decode maps submitted data onto out and validates it. Missing or invalid
// required fields produce a validation error carrying the offending field
// names so the submission can be corrected and resubmitted.
func Decode(data map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build input decoder")
	}
	if err := decoder.Decode(data); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "malformed submitted data")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			msg := fmt.Sprintf("missing or invalid fields: %s", strings.Join(fields, ", "))
			return dErrors.New(dErrors.CodeValidation, msg).WithFields(fields...)
		}
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid submitted data")
	}
	return nil
}
