package requests

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims surrounding whitespace from every text field.
func (c *CreateCommand) Normalize() {
	c.NPI = strings.TrimSpace(c.NPI)
	c.Description = strings.TrimSpace(c.Description)
	c.CurrentValue = strings.TrimSpace(c.CurrentValue)
	c.ProposedValue = strings.TrimSpace(c.ProposedValue)
}

// Validate normalizes c and checks field constraints, the value pair rule,
// and the NPI rule for the request type.
func (c *CreateCommand) Validate() error {
	c.Normalize()

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrInvalidRequest, describe(verrs))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if (c.CurrentValue == "") != (c.ProposedValue == "") {
		return ErrIncompleteChange
	}

	if c.RequestType == TypeNewProfileCreation {
		if c.NPI != NoProvider && !ValidNPI(c.NPI) {
			return fmt.Errorf("%w: npi must be 10 digits or %q", ErrInvalidRequest, NoProvider)
		}
		return nil
	}

	if !ValidNPI(c.NPI) {
		return fmt.Errorf("%w: npi must be 10 digits", ErrInvalidRequest)
	}
	return nil
}

// ValidNPI reports whether npi is exactly ten ASCII digits.
func ValidNPI(npi string) bool {
	if len(npi) != 10 {
		return false
	}
	for _, r := range npi {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s exceeds %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
