package markup

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrFormatting is matched by every error raised while converting raw
	// markup to HTML.
	ErrFormatting = errors.New("markup: formatting failed")
	// ErrReadOnlyAttribute is returned when a caller tries to set the rendered
	// HTML directly.
	ErrReadOnlyAttribute = errors.New("markup: rendered is read-only")
	// ErrConfiguration flags unknown formatters and malformed options. It is
	// raised while wiring fields, before any document is processed.
	ErrConfiguration = errors.New("markup: invalid configuration")
)

const (
	TextCodeFormattingFailed = "MARKUP_FORMATTING_FAILED"
	TextCodeReadOnly         = "MARKUP_RENDERED_READ_ONLY"
	TextCodeConfiguration    = "MARKUP_CONFIGURATION_INVALID"
)

// FormattingError carries the formatter failure together with the raw input
// that triggered it.
type FormattingError struct {
	Formatter string
	Raw       string
	Err       error
}

func (e *FormattingError) Error() string {
	if e.Formatter == "" {
		return fmt.Sprintf("markup: formatting failed: %v", e.Err)
	}
	return fmt.Sprintf("markup: formatter %q failed: %v", e.Formatter, e.Err)
}

func (e *FormattingError) Unwrap() error { return e.Err }

func (e *FormattingError) Is(target error) bool { return target == ErrFormatting }

// ConfigurationError describes a setup problem such as an unknown formatter
// identifier.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "markup: invalid configuration"
	if e.Field != "" {
		msg += " for " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// NewConfigurationError builds a categorised configuration error.
func NewConfigurationError(field, reason string, cause error) error {
	return categorize(&ConfigurationError{Field: field, Reason: reason, Err: cause},
		goerrors.CategoryValidation, "markup configuration invalid", TextCodeConfiguration)
}

func wrapFormattingError(f Formatter, raw string, err error) error {
	name := formatterName(f)
	wrapped := categorize(&FormattingError{Formatter: name, Raw: raw, Err: err},
		goerrors.CategoryOperation, "markup formatting failed", TextCodeFormattingFailed)
	if name != "" {
		wrapped = wrapped.WithMetadata(map[string]any{"formatter": name})
	}
	return wrapped
}

func readOnlyError() error {
	return categorize(ErrReadOnlyAttribute, goerrors.CategoryBadInput,
		"rendered markup cannot be assigned", TextCodeReadOnly)
}

// categorize attaches a category to source without letting goerrors.Wrap
// collapse it into an inner *goerrors.Error, which would drop the typed
// wrapper callers match with errors.Is.
func categorize(source error, category goerrors.Category, message, code string) *goerrors.Error {
	err := goerrors.New(message, category).WithTextCode(code)
	err.Source = source
	return err
}
