package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldMessages renders a failed tag; %s is the tag parameter.
var fieldMessages = map[string]string{
	"required":    "is required",
	"required_if": "is required when %s",
	"min":         "must be at least %s",
	"max":         "must be at most %s",
	"oneof":       "must be one of: %s",
	"url":         "must be a valid URL",
}

// Validate checks cfg before anything is started. Every violation is
// listed in the returned error, one per line.
func (c *Config) Validate() error {
	err := validate.Struct(c)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		lines[i] = describe(fe)
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func describe(fe validator.FieldError) string {
	field := keyPath(fe.Namespace())

	switch fe.Tag() {
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", field, sibling(field, fe.Param()))
	case "gtefield":
		return fmt.Sprintf("%s must not be below %s", field, sibling(field, fe.Param()))
	}

	msg, ok := fieldMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}

	if strings.Contains(msg, "%s") {
		msg = fmt.Sprintf(msg, fe.Param())
	}

	return field + " " + msg
}

// keyPath turns a validator namespace such as "Config.Server.Port" into
// the lower-cased path "server.port"; the root struct name is dropped.
func keyPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		rest = namespace
	}

	return strings.ToLower(rest)
}

// sibling names the field compared against by a *field tag.
func sibling(path, name string) string {
	return path[:strings.LastIndex(path, ".")+1] + strings.ToLower(name)
}
