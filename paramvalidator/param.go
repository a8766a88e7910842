// Package paramvalidator validates individual OpenAPI parameter values
// (path, query, header, cookie) against their declared schema, returning
// at most one wire error per parameter.
//
// Validation is a tagged-variant family keyed by the parameter's declared
// type (integer, number, string, boolean, array, object) rather than a
// class hierarchy: Validate dispatches on type and each branch is
// exhaustive over that type's own constraints, with array/object
// delegating to schemavalidator for element/property schemas.
package paramvalidator

import (
	"strconv"
	"strings"

	"github.com/apigate/apigate/gateerrors"
	"github.com/apigate/apigate/parser"
	"github.com/apigate/apigate/schemavalidator"
)

// Validator validates parameter values against their schema.
type Validator struct {
	schema *schemavalidator.Validator
}

// New creates a Validator, using sv for array/object element/property
// validation. Pass a schemavalidator.NewRedacting() instance when
// validating parameters that may carry sensitive values (e.g. headers).
func New(sv *schemavalidator.Validator) *Validator {
	if sv == nil {
		sv = schemavalidator.New()
	}
	return &Validator{schema: sv}
}

// Validate checks a single raw string parameter value (or its absence,
// signaled by present=false) against schema. name identifies the
// parameter for the wire error message. Returns nil if the value is
// acceptable.
func (v *Validator) Validate(name string, value string, present bool, required bool, schema *parser.Schema) *gateerrors.WireError {
	if !present || value == "" {
		if !required {
			return nil
		}
		return gateerrors.New(gateerrors.CodeRequestParamMissing, "request parameter missing: "+name)
	}

	switch primaryType(schema) {
	case "integer":
		return v.validateInteger(name, value, schema)
	case "number":
		return v.validateNumber(name, value, schema)
	case "boolean":
		return v.validateBoolean(name, value, schema)
	case "array":
		return v.validateArray(name, value, schema)
	case "object":
		return v.validateObject(name, value, schema)
	default:
		return v.validateString(name, value, schema)
	}
}

func (v *Validator) validateInteger(name, value string, schema *parser.Schema) *gateerrors.WireError {
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return gateerrors.New(gateerrors.CodeRequestParamInvalidFormat, "request parameter invalid format: "+name)
	}
	return v.checkRange(name, float64(i), schema)
}

func (v *Validator) validateNumber(name, value string, schema *parser.Schema) *gateerrors.WireError {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return gateerrors.New(gateerrors.CodeRequestParamInvalidFormat, "request parameter invalid format: "+name)
	}
	return v.checkRange(name, f, schema)
}

func (v *Validator) checkRange(name string, n float64, schema *parser.Schema) *gateerrors.WireError {
	if schema == nil {
		return nil
	}
	if schema.Minimum != nil {
		if isExclusiveMinimum(schema) {
			if n <= *schema.Minimum {
				return gateerrors.New(gateerrors.CodeRequestParamBelowMin, "request parameter below min: "+name)
			}
		} else if n < *schema.Minimum {
			return gateerrors.New(gateerrors.CodeRequestParamBelowMin, "request parameter below min: "+name)
		}
	}
	if schema.Maximum != nil {
		if isExclusiveMaximum(schema) {
			if n >= *schema.Maximum {
				return gateerrors.New(gateerrors.CodeRequestParamAboveMax, "request parameter above max: "+name)
			}
		} else if n > *schema.Maximum {
			return gateerrors.New(gateerrors.CodeRequestParamAboveMax, "request parameter above max: "+name)
		}
	}
	return nil
}

// isExclusiveMinimum/isExclusiveMaximum mirror schemavalidator's draft-4
// style handling: exclusive bounds are signaled by a boolean sibling of
// Minimum/Maximum, not a standalone numeric field.
func isExclusiveMinimum(schema *parser.Schema) bool {
	b, _ := schema.ExclusiveMinimum.(bool)
	return b
}

func isExclusiveMaximum(schema *parser.Schema) bool {
	b, _ := schema.ExclusiveMaximum.(bool)
	return b
}

func (v *Validator) validateBoolean(name, value string, _ *parser.Schema) *gateerrors.WireError {
	switch strings.ToLower(value) {
	case "true", "false":
		return nil
	default:
		return gateerrors.New(gateerrors.CodeRequestParamInvalidFormat, "request parameter invalid format: "+name)
	}
}

// validateString delegates to schemavalidator so minLength/maxLength/
// pattern/enum/format all apply; a data value is validated with
// TypeLoose=true since it originated as a URL string.
func (v *Validator) validateString(name, value string, schema *parser.Schema) *gateerrors.WireError {
	if iss := v.schema.Validate(value, schema, name, schemavalidator.Config{TypeLoose: true}); iss != nil {
		return classify(name, iss.Message)
	}
	return nil
}

// validateArray splits a comma-separated raw value (the "simple"/"form"
// style default for unexploded array parameters) and delegates element
// and collection constraints (minItems, uniqueItems, element schema) to
// schemavalidator.
func (v *Validator) validateArray(name, value string, schema *parser.Schema) *gateerrors.WireError {
	var parts []any
	if value != "" {
		for _, p := range strings.Split(value, ",") {
			parts = append(parts, coerceItem(p, getItemsSchema(schema)))
		}
	}
	if iss := v.schema.Validate(parts, schema, name, schemavalidator.Config{TypeLoose: true}); iss != nil {
		return classify(name, iss.Message)
	}
	return nil
}

// validateObject validates the raw string value exactly as validateString
// does; it does not parse the string into an object. Callers that need
// deepObject parsing construct the map themselves and call
// ValidateObjectValue instead.
func (v *Validator) validateObject(name, value string, schema *parser.Schema) *gateerrors.WireError {
	return v.validateString(name, value, schema)
}

// ValidateObjectValue validates an already-deserialized object/array value
// (e.g. from deepObject-style query parameters) rather than a raw string.
func (v *Validator) ValidateObjectValue(name string, value any, schema *parser.Schema) *gateerrors.WireError {
	if iss := v.schema.Validate(value, schema, name, schemavalidator.Config{TypeLoose: true}); iss != nil {
		return classify(name, iss.Message)
	}
	return nil
}

// classify maps a schemavalidator issue onto the nearest ERR11xxx code:
// range violations get their specific code, everything else is a format
// violation (the parameter's shape didn't satisfy its schema).
func classify(name, message string) *gateerrors.WireError {
	switch {
	case strings.Contains(message, "less than minimum") || strings.Contains(message, "must be greater than"):
		return gateerrors.New(gateerrors.CodeRequestParamBelowMin, "request parameter below min: "+name)
	case strings.Contains(message, "exceeds maximum") || strings.Contains(message, "must be less than"):
		return gateerrors.New(gateerrors.CodeRequestParamAboveMax, "request parameter above max: "+name)
	default:
		return gateerrors.New(gateerrors.CodeRequestParamInvalidFormat, "request parameter invalid format: "+name)
	}
}

func coerceItem(value string, itemSchema *parser.Schema) any {
	switch primaryType(itemSchema) {
	case "integer":
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	case "number":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return value
}

func getItemsSchema(schema *parser.Schema) *parser.Schema {
	if schema == nil {
		return nil
	}
	if s, ok := schema.Items.(*parser.Schema); ok {
		return s
	}
	return nil
}

func primaryType(schema *parser.Schema) string {
	if schema == nil {
		return ""
	}
	switch t := schema.Type.(type) {
	case string:
		return t
	case []string:
		for _, typ := range t {
			if typ != "null" {
				return typ
			}
		}
	case []any:
		for _, typ := range t {
			if s, ok := typ.(string); ok && s != "null" {
				return s
			}
		}
	}
	return ""
}
