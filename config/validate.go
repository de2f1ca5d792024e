package config

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ErrInvalid wraps every configuration error.
var ErrInvalid = stderrors.New("config: invalid configuration")

var validate = validator.New()

// Validate checks field tags and the rules spanning several fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(ErrInvalid, formatValidationError(err))
	}
	switch {
	case c.Search.Verify && c.Search.Variant != "normal":
		return errors.Wrapf(ErrInvalid, "verify needs the normal variant, not %s", c.Search.Variant)
	case c.Search.IndicatorEpsilon >= c.Search.BigM:
		return errors.Wrap(ErrInvalid, "indicator_epsilon must be below big_m")
	case c.Search.CheckComplete && c.Search.Strategy != "traversal":
		return errors.Wrap(ErrInvalid, "check_complete applies to the traversal strategy")
	}

	return nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}

	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "Config."))
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("%s must be %s %s, got %v", field, e.Tag(), e.Param(), e.Value())
	case "gtfield":
		return fmt.Sprintf("%s must exceed %s", field, strings.ToLower(e.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
