package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// ErrSchemaInvalid is wrapped when a formatter declares a schema that
	// does not compile.
	ErrSchemaInvalid = errors.New("validation: options schema invalid")
	// ErrSchemaValidation is matched by every OptionsError.
	ErrSchemaValidation = errors.New("validation: formatter options rejected")
)

// Issue is one rejected option. Location is a JSON pointer such as
// "#/hard_wraps".
type Issue struct {
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	location := strings.TrimSpace(i.Location)
	switch {
	case location == "":
		location = "#"
	case !strings.HasPrefix(location, "#"):
		location = "#" + location
	}
	if i.Message == "" {
		return location
	}
	return location + ": " + i.Message
}

// OptionsError reports formatter options that fail their schema.
type OptionsError struct {
	Issues []Issue
	Cause  error
}

func (e *OptionsError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

func (e *OptionsError) Unwrap() error { return ErrSchemaValidation }

// Issues lists the option issues carried by err, or a single issue holding
// err's message when it carries none.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var optionsErr *OptionsError
	if errors.As(err, &optionsErr) && optionsErr != nil {
		return optionsErr.Issues
	}
	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) && schemaErr != nil {
		return leafIssues(schemaErr)
	}
	return []Issue{{Message: err.Error()}}
}

// Schema is a compiled formatter options schema. A nil *Schema accepts any
// options.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile builds a Schema from a JSON schema document expressed as a map.
// An empty document compiles to nil.
func Compile(document map[string]any) (*Schema, error) {
	if len(document) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("options.json", bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile("options.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks options against the schema.
func (s *Schema) Validate(options map[string]any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	instance, err := asJSON(options)
	if err != nil {
		return &OptionsError{Issues: []Issue{{Message: err.Error()}}, Cause: err}
	}
	if err := s.compiled.Validate(instance); err != nil {
		return &OptionsError{Issues: Issues(err), Cause: err}
	}
	return nil
}

// asJSON round-trips options through encoding/json so Go values such as
// []string or int reach the validator as JSON arrays and numbers.
func asJSON(options map[string]any) (any, error) {
	if options == nil {
		return map[string]any{}, nil
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func leafIssues(root *jsonschema.ValidationError) []Issue {
	var issues []Issue
	stack := []*jsonschema.ValidationError{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			continue
		}
		for i := len(node.Causes) - 1; i >= 0; i-- {
			stack = append(stack, node.Causes[i])
		}
	}
	return issues
}
