package logging

import (
	"fmt"
	"unicode/utf8"

	"github.com/goliatone/go-markitup/markup"
	"github.com/goliatone/go-markitup/pkg/interfaces"
)

// MaxMarkupPreview caps how many runes of raw or rendered markup reach a log
// entry.
const MaxMarkupPreview = 48

// WithFields attaches fields when logger implements interfaces.FieldsLogger.
// Markup values in fields are summarised first.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = SummarizeMarkup(value)
	}
	return fieldsLogger.WithFields(copied)
}

// SummarizeArgs returns args with markup values summarised. The slice is only
// copied when something changes.
func SummarizeArgs(args []any) []any {
	var out []any
	for i, arg := range args {
		if !isMarkup(arg) {
			continue
		}
		if out == nil {
			out = make([]any, len(args))
			copy(out, args)
		}
		out[i] = SummarizeMarkup(arg)
	}
	if out == nil {
		return args
	}
	return out
}

// SummarizeMarkup replaces *markup.Value and markup.SafeHTML with a short
// string so whole documents never end up in logs. Other values pass through.
func SummarizeMarkup(value any) any {
	switch v := value.(type) {
	case markup.SafeHTML:
		return ClipMarkup(string(v))
	case *markup.Value:
		if v == nil {
			return nil
		}
		return fmt.Sprintf("raw=%d rendered=%d %s", v.Len(), len(v.Rendered()), ClipMarkup(v.Raw()))
	}
	return value
}

func isMarkup(value any) bool {
	switch value.(type) {
	case markup.SafeHTML, *markup.Value:
		return true
	}
	return false
}

// ClipMarkup truncates text to MaxMarkupPreview runes.
func ClipMarkup(text string) string {
	if utf8.RuneCountInString(text) <= MaxMarkupPreview {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxMarkupPreview]) + "..."
}
