package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed todo.schema.json
var schemaJSON string

const schemaURL = "todo.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileErr     error
	compileOnce    sync.Once
)

func stateSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// ValidateDocument checks a raw JSON document against the store schema.
// Violations are returned as a *SchemaError.
func ValidateDocument(data []byte) error {
	schema, err := stateSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return err
		}
		se := &SchemaError{}
		collectViolations(se, ve)
		return se
	}
	return nil
}

func collectViolations(se *SchemaError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		se.Violations = append(se.Violations, Violation{
			Path:    pointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectViolations(se, cause)
	}
}

// pointerToPath turns "/tasks/0/name" into "tasks[0].name".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
