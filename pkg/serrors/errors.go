package serrors

import "fmt"

// Base is a coded error shared across modules. Code is a stable,
// machine-readable identifier; Message is for humans.
type Base struct {
	Code      string
	Message   string
	LocaleKey string
}

func (e *Base) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message, localeKey string) *Base {
	return &Base{Code: code, Message: message, LocaleKey: localeKey}
}

type FieldRequiredError struct {
	Base
	Field string
}

func NewFieldRequiredError(field, localeKey string) *FieldRequiredError {
	return &FieldRequiredError{
		Base: Base{
			Code:      "FIELD_REQUIRED",
			Message:   fmt.Sprintf("field %q is required", field),
			LocaleKey: localeKey,
		},
		Field: field,
	}
}
