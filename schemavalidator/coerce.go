package schemavalidator

import (
	"strconv"

	"github.com/apigate/apigate/parser"
)

// coerceLoose converts a raw string data value to the Go type schema
// declares, for TypeLoose validation of URL-sourced parameter values
// (query/path/header/cookie strings that must satisfy a typed schema).
// Non-string data, or data that fails to parse as the declared type, is
// returned unchanged so the subsequent type check reports the mismatch.
func coerceLoose(data any, schema *parser.Schema) any {
	s, ok := data.(string)
	if !ok {
		return data
	}

	switch primarySchemaType(schema) {
	case "integer":
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
	case "number":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return data
}

// primarySchemaType returns schema's declared type, preferring the first
// non-"null" entry when type is an array (OAS 3.1+ nullable-by-union
// style).
func primarySchemaType(schema *parser.Schema) string {
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
		if len(t) > 0 {
			return t[0]
		}
	case []any:
		for _, typ := range t {
			if s, ok := typ.(string); ok && s != "null" {
				return s
			}
		}
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
