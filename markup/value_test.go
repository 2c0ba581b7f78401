package markup_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-markitup/markup"
)

var replaceFormatter = markup.FormatterFunc(func(raw string, _ markup.Options) (string, error) {
	return strings.ReplaceAll(raw, "replace this", "replacement"), nil
})

var upperFormatter = markup.FormatterFunc(func(raw string, opts markup.Options) (string, error) {
	skip := map[rune]struct{}{}
	for _, entry := range opts.Strings("skip") {
		for _, r := range entry {
			skip[r] = struct{}{}
		}
	}
	var b strings.Builder
	for _, r := range raw {
		if _, ok := skip[r]; ok {
			b.WriteRune(r)
			continue
		}
		b.WriteString(strings.ToUpper(string(r)))
	}
	return b.String(), nil
})

type countingFormatter struct {
	calls int
	inner markup.Formatter
}

func (c *countingFormatter) Format(raw string, opts markup.Options) (string, error) {
	c.calls++
	return c.inner.Format(raw, opts)
}

type failingFormatter struct{ err error }

func (f failingFormatter) Format(string, markup.Options) (string, error) { return "", f.err }

func (failingFormatter) Name() string { return "failing" }

func mustValue(t *testing.T, raw string, f markup.Formatter) *markup.Value {
	t.Helper()
	value, err := markup.New(raw, f)
	if err != nil {
		t.Fatalf("markup.New(%q): %v", raw, err)
	}
	return value
}

func TestNewRendersEagerly(t *testing.T) {
	t.Parallel()

	value := mustValue(t, "replace this text", replaceFormatter)
	if value.Raw() != "replace this text" {
		t.Fatalf("expected raw to be kept, got %q", value.Raw())
	}
	if value.Rendered() != "replacement text" {
		t.Fatalf("expected rendered %q, got %q", "replacement text", value.Rendered())
	}
	if value.String() != "replacement text" {
		t.Fatalf("expected string form to be rendered html, got %q", value.String())
	}
}

func TestNewPropagatesFormattingError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	value, err := markup.New("text", failingFormatter{err: cause})
	if value != nil {
		t.Fatalf("expected no value on failure, got %#v", value)
	}
	if !errors.Is(err, markup.ErrFormatting) {
		t.Fatalf("expected ErrFormatting, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryOperation) {
		t.Fatalf("expected operation category, got %v", err)
	}
	var formattingErr *markup.FormattingError
	if !errors.As(err, &formattingErr) || formattingErr.Formatter != "failing" {
		t.Fatalf("expected FormattingError naming the formatter, got %#v", formattingErr)
	}
}

func TestNewRequiresFormatter(t *testing.T) {
	t.Parallel()

	if _, err := markup.New("text", nil); !errors.Is(err, markup.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewRecoversFormatterPanics(t *testing.T) {
	t.Parallel()

	panicking := markup.FormatterFunc(func(string, markup.Options) (string, error) {
		panic("bad input")
	})
	if _, err := markup.New("text", panicking); !errors.Is(err, markup.ErrFormatting) {
		t.Fatalf("expected ErrFormatting from panic, got %v", err)
	}
}

func TestSetRawKeepsPairInSync(t *testing.T) {
	t.Parallel()

	value := mustValue(t, "replace this text", replaceFormatter)

	if err := value.SetRaw("replace this other text"); err != nil {
		t.Fatalf("SetRaw: %v", err)
	}
	if value.Rendered() != "replacement other text" {
		t.Fatalf("expected rendered to follow raw, got %q", value.Rendered())
	}

	if err := value.SetRaw("new text, replace this"); err != nil {
		t.Fatalf("SetRaw: %v", err)
	}
	if value.String() != "new text, replacement" {
		t.Fatalf("expected %q, got %q", "new text, replacement", value.String())
	}
}

func TestSetRawFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	shouldFail := false
	flaky := markup.FormatterFunc(func(raw string, _ markup.Options) (string, error) {
		if shouldFail {
			return "", errors.New("renderer offline")
		}
		return "<p>" + raw + "</p>", nil
	})

	value := mustValue(t, "first", flaky)
	shouldFail = true

	err := value.SetRaw("second")
	if !errors.Is(err, markup.ErrFormatting) {
		t.Fatalf("expected ErrFormatting, got %v", err)
	}
	if value.Raw() != "first" || value.Rendered() != "<p>first</p>" {
		t.Fatalf("expected previous pair to survive, got raw=%q rendered=%q", value.Raw(), value.Rendered())
	}
}

func TestSetRenderedIsRejected(t *testing.T) {
	t.Parallel()

	value := mustValue(t, "replace this text", replaceFormatter)

	for _, attempt := range []string{"", "this should fail", "replacement text"} {
		err := value.SetRendered(attempt)
		if !errors.Is(err, markup.ErrReadOnlyAttribute) {
			t.Fatalf("expected ErrReadOnlyAttribute for %q, got %v", attempt, err)
		}
		if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
			t.Fatalf("expected bad input category, got %v", err)
		}
	}
	if value.Rendered() != "replacement text" {
		t.Fatalf("expected rendered to stay untouched, got %q", value.Rendered())
	}
}

func TestRenderedReadDoesNotRender(t *testing.T) {
	t.Parallel()

	counter := &countingFormatter{inner: replaceFormatter}
	value := mustValue(t, "replace this text", counter)

	_ = value.Rendered()
	_ = value.String()
	_ = value.HTML()

	if counter.calls != 1 {
		t.Fatalf("expected a single render at construction, got %d", counter.calls)
	}
}

func TestRenderWithKeepsBoundFormatter(t *testing.T) {
	t.Parallel()

	value := mustValue(t, "replace this text", replaceFormatter)

	if err := value.RenderWith(upperFormatter, markup.Options{"skip": []string{"a", "s"}}); err != nil {
		t.Fatalf("RenderWith: %v", err)
	}
	if value.String() != "REPLaCE THIs TEXT" {
		t.Fatalf("expected skip option to apply, got %q", value.String())
	}

	if err := value.RenderWith(upperFormatter, nil); err != nil {
		t.Fatalf("RenderWith without options: %v", err)
	}
	if value.String() != "REPLACE THIS TEXT" {
		t.Fatalf("expected full upper-casing, got %q", value.String())
	}

	if err := value.SetRaw("replace this thing"); err != nil {
		t.Fatalf("SetRaw: %v", err)
	}
	if value.String() != "replacement thing" {
		t.Fatalf("expected bound formatter after RenderWith, got %q", value.String())
	}
}

func TestRenderWithIgnoresUnknownOptions(t *testing.T) {
	t.Parallel()

	value := mustValue(t, "abc", replaceFormatter)
	if err := value.RenderWith(upperFormatter, markup.Options{"unknown": 42}); err != nil {
		t.Fatalf("RenderWith: %v", err)
	}
	if value.String() != "ABC" {
		t.Fatalf("expected unknown keys to be ignored, got %q", value.String())
	}
}

func TestLengthAndEmptinessFollowRaw(t *testing.T) {
	t.Parallel()

	empty := mustValue(t, "", replaceFormatter)
	if !empty.IsEmpty() || empty.Len() != 0 {
		t.Fatalf("expected empty value, got len=%d empty=%v", empty.Len(), empty.IsEmpty())
	}
	if empty.Rendered() != "" {
		t.Fatalf("expected empty rendered, got %q", empty.Rendered())
	}

	post := mustValue(t, "replace this text", replaceFormatter)
	if post.IsEmpty() {
		t.Fatal("expected non-empty value")
	}
	if post.Len() != len("replace this text") {
		t.Fatalf("expected raw length %d, got %d", len("replace this text"), post.Len())
	}
	if post.Len() == len(post.String()) {
		t.Fatalf("expected length to track raw rather than rendered")
	}

	unicode := mustValue(t, "héllo", replaceFormatter)
	if unicode.Len() != 5 {
		t.Fatalf("expected character length 5, got %d", unicode.Len())
	}
}

func TestEqualComparesRawOnly(t *testing.T) {
	t.Parallel()

	a := mustValue(t, "replace this text", replaceFormatter)
	b := mustValue(t, "replace this text", upperFormatter)
	c := mustValue(t, "other", replaceFormatter)

	if !a.Equal(b) {
		t.Fatal("expected values with equal raw text to be equal")
	}
	if a.Equal(c) {
		t.Fatal("expected values with different raw text to differ")
	}
}

func TestJSONRoundTripDoesNotRerender(t *testing.T) {
	t.Parallel()

	original := mustValue(t, "replace this thing", replaceFormatter)
	payload, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `{"raw":"replace this thing","rendered":"replacement thing"}` {
		t.Fatalf("unexpected payload %s", payload)
	}

	counter := &countingFormatter{inner: upperFormatter}
	restored := markup.Load("", "", counter)
	if err := json.Unmarshal(payload, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if counter.calls != 0 {
		t.Fatalf("expected no formatter calls on decode, got %d", counter.calls)
	}
	if restored.Raw() != original.Raw() || restored.Rendered() != original.Rendered() {
		t.Fatalf("expected identical pair, got raw=%q rendered=%q", restored.Raw(), restored.Rendered())
	}
}

func TestLoadTrustsPersistedPair(t *testing.T) {
	t.Parallel()

	counter := &countingFormatter{inner: replaceFormatter}
	value := markup.Load("replace this text", "stale but trusted", counter)
	if counter.calls != 0 {
		t.Fatalf("expected Load not to render, got %d calls", counter.calls)
	}
	if value.Rendered() != "stale but trusted" {
		t.Fatalf("expected persisted rendered html, got %q", value.Rendered())
	}

	if err := value.SetRaw("replace this again"); err != nil {
		t.Fatalf("SetRaw: %v", err)
	}
	if value.Rendered() != "replacement again" {
		t.Fatalf("expected bound formatter to run on write, got %q", value.Rendered())
	}
}

func TestAssignAcceptsStringsAndValues(t *testing.T) {
	t.Parallel()

	value := mustValue(t, "replace this text", replaceFormatter)

	if err := value.Assign("replace this other text"); err != nil {
		t.Fatalf("Assign string: %v", err)
	}
	if value.String() != "replacement other text" {
		t.Fatalf("unexpected rendered %q", value.String())
	}

	other := mustValue(t, "abc", upperFormatter)
	if err := value.Assign(other); err != nil {
		t.Fatalf("Assign value: %v", err)
	}
	if value.Raw() != "abc" || value.String() != "abc" {
		t.Fatalf("expected raw copied and re-rendered with own formatter, got raw=%q rendered=%q", value.Raw(), value.String())
	}

	if err := value.Assign(42); !errors.Is(err, markup.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unsupported input, got %v", err)
	}
}

func TestNilValueMutatorsReportConfigurationError(t *testing.T) {
	t.Parallel()

	var value *markup.Value
	if err := value.SetRaw("text"); !errors.Is(err, markup.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration from SetRaw, got %v", err)
	}
	if err := value.RenderWith(markup.FormatterFunc(func(raw string, _ markup.Options) (string, error) {
		return raw, nil
	}), nil); !errors.Is(err, markup.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration from RenderWith, got %v", err)
	}
	if value.Raw() != "" || value.Len() != 0 {
		t.Fatalf("expected nil value to read as empty")
	}
}
