// Package validation validates untrusted JSON documents against JSON
// Schemas. Used for the structured output of the reasoning service, where a
// syntactically valid document can still have the wrong shape.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateSchema checks document against schemaJSON and returns an error
// listing every violation, or nil when the document conforms.
func ValidateSchema(document interface{}, schemaJSON string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("schema validation failed: %v", errs)
	}

	return nil
}
