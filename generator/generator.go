package generator

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dasolve/dmddl/schema"
)

var (
	ErrUnsupportedDialect = errors.New("unsupported dialect")
	ErrUnknownTarget      = errors.New("unknown target")
)

// Options tune the emitted code. Emitters ignore options they do not use.
type Options struct {
	// ExplicitTableNames emits a table name override whenever the class
	// name differs from the table name. When false the names are compared
	// case-insensitively.
	ExplicitTableNames bool
}

// Emitter turns a validated data model into source text for one dialect.
type Emitter interface {
	Emit(m *schema.DataModel, opts Options) (string, error)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(m *schema.DataModel, opts Options) (string, error)

func (f EmitterFunc) Emit(m *schema.DataModel, opts Options) (string, error) {
	return f(m, opts)
}

// Target is an output flavour, with one emitter per supported dialect.
type Target struct {
	Name string
	// Language is the lexer name used when highlighting output.
	Language string
	Emitters map[string]Emitter
}

// Dialects returns the dialects the target can emit, sorted.
func (t *Target) Dialects() []string {
	out := make([]string, 0, len(t.Emitters))
	for d := range t.Emitters {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Supports reports whether the target has an emitter for dialect.
func (t *Target) Supports(dialect string) bool {
	_, ok := t.Emitters[strings.ToLower(dialect)]
	return ok
}

var targets = map[string]*Target{}

// Register makes an emitter available for a target and dialect. Emitter
// packages call it from init.
func Register(target, language, dialect string, e Emitter) {
	name := strings.ToLower(target)
	t, ok := targets[name]
	if !ok {
		t = &Target{Name: name, Language: language, Emitters: map[string]Emitter{}}
		targets[name] = t
	}
	t.Emitters[strings.ToLower(dialect)] = e
}

// Lookup returns the registered target with the given name.
func Lookup(name string) (*Target, bool) {
	t, ok := targets[strings.ToLower(name)]
	return t, ok
}

// Targets returns the registered target names, sorted.
func Targets() []string {
	out := make([]string, 0, len(targets))
	for name := range targets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Generate emits code for m with the named target. The dialect is resolved
// before anything is emitted, so an unsupported dialect yields no output.
func Generate(m *schema.DataModel, target string, opts Options) (string, error) {
	t, ok := Lookup(target)
	if !ok {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrUnknownTarget, target, strings.Join(Targets(), ", "))
	}
	e, ok := t.Emitters[strings.ToLower(m.Dialect)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDialect, m.Dialect)
	}
	code, err := e.Emit(m, opts)
	if err != nil {
		return "", fmt.Errorf("generating %s code: %w", t.Name, err)
	}
	return code, nil
}

// WriteFile saves generated code to filename, replacing any existing content.
func WriteFile(filename, code string) error {
	if err := os.WriteFile(filename, []byte(code), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
