package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskmate-go/internal/utils"
)

const importSchemaURL = "https://taskmate.local/schema/import.schema.json"

// importSchema describes the JSON accepted by Import. Priorities are matched
// case-insensitively and normalized afterwards by ParsePriority.
const importSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["tasks"],
  "additionalProperties": false,
  "properties": {
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["description", "priority"],
        "additionalProperties": false,
        "properties": {
          "description": {"type": "string", "pattern": "\\S"},
          "priority": {"type": "string", "pattern": "^\\s*(?i:low|medium|high)\\s*$"}
        }
      }
    }
  }
}`

// ImportFile is the JSON document read by Import and written by Export.
type ImportFile struct {
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // Dotted path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Err joins the validation errors into one error, or returns nil. Each
// validation error stays reachable through errors.Is and errors.As.
func (r *ValidationResult) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	if len(r.Errors) == 0 {
		return errors.New("invalid import file")
	}
	verbs := make([]string, len(r.Errors))
	args := make([]any, len(r.Errors))
	for i, err := range r.Errors {
		verbs[i] = "%w"
		args[i] = err
	}
	return fmt.Errorf("invalid import file: "+strings.Join(verbs, "; "), args...)
}

// Import reads a JSON task list, validates it and returns the normalized tasks.
// Nothing is returned unless every task is valid.
func Import(r io.Reader) ([]Task, *ValidationResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read import file: %w", err)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parse import file: %w", err)
	}

	result := validateImport(raw)
	if !result.Valid {
		return nil, result, result.Err()
	}

	var f ImportFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, result, fmt.Errorf("parse import file: %w", err)
	}

	tasks := make([]Task, 0, len(f.Tasks))
	for i, t := range f.Tasks {
		task, err := ValidateInput(t.Description, string(t.Priority))
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("tasks[%d]", i),
				Err:  err,
			})
			continue
		}
		tasks = append(tasks, task)
	}
	if !result.Valid {
		return nil, result, result.Err()
	}
	return tasks, result, nil
}

// validateImport runs schema validation, falling back to minimal structural
// checks if the schema cannot be compiled.
func validateImport(raw interface{}) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schema, err := compileImportSchema()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("JSON Schema validation not available, using minimal checks: %v", err))
		validateImportMinimal(raw, result)
		return result
	}

	result.UsedSchema = true
	if err := schema.Validate(raw); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	return result
}

func compileImportSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(importSchemaURL, strings.NewReader(importSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(importSchemaURL)
}

func validateImportMinimal(raw interface{}, result *ValidationResult) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("expected an object")})
		return
	}
	tasks, ok := obj["tasks"].([]interface{})
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "tasks",
			Err:  fmt.Errorf("missing required field"),
		})
		return
	}
	for i, item := range tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		entry, ok := item.(map[string]interface{})
		if !ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{Path: path, Err: fmt.Errorf("expected an object")})
			continue
		}
		for _, key := range []string{columnDescription, columnPriority} {
			if _, ok := entry[key].(string); !ok {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{
					Path: path + "." + key,
					Err:  fmt.Errorf("missing required field"),
				})
			}
		}
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
