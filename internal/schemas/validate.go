// Package schemas validates content-provider payloads against JSON Schemas
// before they are trusted by the assessment engines.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// scoreReportSchema constrains a provider scoring response: a kind plus a
// list of categories with 0-100 integer scores.
const scoreReportSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["kind", "categories"],
  "properties": {
    "kind": {"type": "string", "minLength": 1},
    "categories": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["key", "score"],
        "properties": {
          "key": {"type": "string", "minLength": 1},
          "score": {"type": "integer", "minimum": 0, "maximum": 100},
          "title": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    }
  }
}`

// careerMatchesSchema constrains a provider career-match response.
const careerMatchesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["matches"],
  "properties": {
    "matches": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["code", "title"],
        "properties": {
          "code": {"type": "string", "minLength": 1},
          "title": {"type": "string", "minLength": 1},
          "fit": {"type": "string"}
        }
      }
    }
  }
}`

// FieldError is a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates schema violations for one payload.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("payload validation failed:")
	for _, fe := range ve.Errors {
		sb.WriteString(fmt.Sprintf("\n  %s: %s", fe.Field, fe.Message))
	}
	return sb.String()
}

// ValidateScoreReport checks a scoring payload against its schema.
func ValidateScoreReport(payload []byte) error {
	return validate(scoreReportSchema, payload)
}

// ValidateCareerMatches checks a career-match payload against its schema.
func ValidateCareerMatches(payload []byte) error {
	return validate(careerMatchesSchema, payload)
}

func validate(schema string, payload []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
