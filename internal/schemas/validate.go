// Package schemas is the parse-and-validate boundary for structured data
// coming back from the reasoning service. Output is never trusted as
// pre-validated: it is checked against a JSON Schema before any stage
// consumes it.
package schemas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema mismatch in reasoning-service output
// or a persisted artifact, with per-field detail
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s validation failed:\n", ve.Schema))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateString validates JSON document content against one of the schema
// constants in this package. A malformed document returns *ValidationError;
// a broken schema is a programming error and returns a plain error.
func ValidateString(schemaName, schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationError{
			Schema: schemaName,
			Errors: []FieldError{{Field: "(root)", Message: err.Error()}},
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: schemaName,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks an unmarshaled artifact against its `validate` tags.
// Used after JSON Schema validation to enforce cross-field constraints the
// schema cannot express.
func ValidateStruct(schemaName string, v any) error {
	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}

	validationErr := &ValidationError{Schema: schemaName}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		validationErr.Errors = []FieldError{{Field: "(root)", Message: err.Error()}}
		return validationErr
	}

	for _, fe := range invalid {
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("failed %q constraint", fe.Tag()),
		})
	}
	return validationErr
}
