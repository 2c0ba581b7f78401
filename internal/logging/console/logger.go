package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-markitup/internal/logging"
	"github.com/goliatone/go-markitup/pkg/interfaces"
)

// Level is the severity of an entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// ParseLevel maps a configured level name to a Level. Unknown names report
// false.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "", "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "fatal":
		return LevelFatal, true
	}
	return LevelInfo, false
}

// Options configures the console provider.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	MinLevel *Level
	// Focus limits output to loggers whose name equals or is nested under one
	// of the entries, e.g. "markitup.preview".
	Focus []string
}

// Provider writes one key=value line per entry.
type Provider struct {
	mu       sync.Mutex
	out      io.Writer
	now      func() time.Time
	minLevel Level
	focus    []string
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider returns a provider writing to stdout from DEBUG up unless opts
// say otherwise.
func NewProvider(opts Options) *Provider {
	p := &Provider{
		out:      opts.Writer,
		now:      opts.TimeFunc,
		minLevel: LevelDebug,
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.now == nil {
		p.now = time.Now
	}
	if opts.MinLevel != nil {
		p.minLevel = *opts.MinLevel
	}
	for _, name := range opts.Focus {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			p.focus = append(p.focus, name)
		}
	}
	return p
}

// GetLogger satisfies interfaces.LoggerProvider.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	return &entryLogger{
		provider: p,
		muted:    !p.focused(name),
		fields:   map[string]any{"logger": name},
	}
}

func (p *Provider) focused(name string) bool {
	if len(p.focus) == 0 {
		return true
	}
	name = strings.ToLower(name)
	for _, prefix := range p.focus {
		if name == prefix || strings.HasPrefix(name, prefix+".") {
			return true
		}
	}
	return false
}

func (p *Provider) write(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, line)
}

type entryLogger struct {
	provider *Provider
	muted    bool
	fields   map[string]any
	ctx      context.Context
}

var (
	_ interfaces.Logger       = (*entryLogger)(nil)
	_ interfaces.FieldsLogger = (*entryLogger)(nil)
)

func (l *entryLogger) Trace(msg string, args ...any) { l.emit(LevelTrace, msg, args) }
func (l *entryLogger) Debug(msg string, args ...any) { l.emit(LevelDebug, msg, args) }
func (l *entryLogger) Info(msg string, args ...any)  { l.emit(LevelInfo, msg, args) }
func (l *entryLogger) Warn(msg string, args ...any)  { l.emit(LevelWarn, msg, args) }
func (l *entryLogger) Error(msg string, args ...any) { l.emit(LevelError, msg, args) }
func (l *entryLogger) Fatal(msg string, args ...any) { l.emit(LevelFatal, msg, args) }

func (l *entryLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	next := *l
	next.fields = merge(l.fields, fields)
	return &next
}

func (l *entryLogger) WithContext(ctx context.Context) interfaces.Logger {
	next := *l
	next.ctx = ctx
	return &next
}

func (l *entryLogger) emit(level Level, msg string, args []any) {
	if l.provider == nil || l.muted || level < l.provider.minLevel {
		return
	}
	fields := merge(l.fields, logging.ContextFields(l.ctx), pairs(args))
	l.provider.write(line(l.provider.now().UTC(), level, msg, fields))
}

// merge layers maps left to right into a fresh map.
func merge(layers ...map[string]any) map[string]any {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}
	out := make(map[string]any, size)
	for _, layer := range layers {
		for key, value := range layer {
			out[key] = value
		}
	}
	return out
}

// pairs turns slog-style key/value arguments into fields. A value without a
// usable string key is kept under field_<n>.
func pairs(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]any, (len(args)+1)/2)
	for i, n := 0, 0; i < len(args); i, n = i+2, n+1 {
		if i+1 == len(args) {
			out["field_"+strconv.Itoa(n)] = args[i]
			break
		}
		if key, ok := args[i].(string); ok && key != "" {
			out[key] = args[i+1]
			continue
		}
		out["field_"+strconv.Itoa(n)] = args[i+1]
	}
	return out
}

func line(ts time.Time, level Level, msg string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString(ts.Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(msg)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(render(fields[key]))
	}
	b.WriteByte('\n')
	return b.String()
}

func render(value any) string {
	value = logging.SummarizeMarkup(value)
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return quote(v)
	case time.Time:
		return quote(v.UTC().Format(time.RFC3339Nano))
	case *time.Time:
		if v == nil {
			return "null"
		}
		return quote(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return v.String()
	case error:
		return quote(v.Error())
	case fmt.Stringer:
		return quote(v.String())
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	}
	return quote(fmt.Sprint(value))
}

func quote(value string) string {
	if value == "" {
		return `""`
	}
	if strings.IndexFunc(value, func(r rune) bool { return r <= ' ' || r == '=' }) >= 0 {
		return strconv.Quote(value)
	}
	return value
}
