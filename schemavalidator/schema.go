// Package schemavalidator implements a draft-4-compatible subset of JSON
// Schema validation against OpenAPI schema nodes, returning at most one
// issue per call: the first constraint violated, not an accumulated list.
package schemavalidator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/apigate/apigate/internal/issues"
	"github.com/apigate/apigate/internal/severity"
	"github.com/apigate/apigate/internal/stringutil"
	"github.com/apigate/apigate/parser"
)

// Validator validates data values against OpenAPI/JSON Schema nodes.
type Validator struct {
	patternCache sync.Map
	patternCount atomic.Int32

	// redactValues omits actual values from issue messages, for use when
	// validating potentially sensitive data such as header or cookie
	// values that may carry credentials.
	redactValues bool
}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

// NewRedacting creates a Validator that omits actual values from issue
// messages.
func NewRedacting() *Validator {
	return &Validator{redactValues: true}
}

// Config controls per-call validation behavior.
type Config struct {
	// TypeLoose, when true, coerces string tokens (e.g. "1", "true") to
	// their schema-declared type before validating. Used for URL-sourced
	// parameter values. When false, types must already match (used for
	// JSON request/response bodies, which are already typed).
	TypeLoose bool
}

// Validate validates data against schema, returning the first violated
// constraint as a single issue, or nil if data satisfies schema.
func (v *Validator) Validate(data any, schema *parser.Schema, path string, cfg Config) *issues.Issue {
	if schema == nil {
		return nil
	}

	if data == nil {
		if v.isNullable(schema) {
			return nil
		}
		return v.issue(path, "value cannot be null")
	}

	if cfg.TypeLoose {
		data = coerceLoose(data, schema)
	}

	if iss := v.validateType(data, schema, path); iss != nil {
		return iss
	}

	var iss *issues.Issue
	switch d := data.(type) {
	case string:
		iss = v.validateString(d, schema, path)
	case float64:
		iss = v.validateNumber(d, schema, path)
	case int, int64, int32:
		iss = v.validateNumber(toFloat64(d), schema, path)
	case bool:
		// no additional constraints
	case []any:
		iss = v.validateArray(d, schema, path, cfg)
	case map[string]any:
		iss = v.validateObject(d, schema, path, cfg)
	}
	if iss != nil {
		return iss
	}

	if len(schema.Enum) > 0 {
		if iss := v.validateEnum(data, schema, path); iss != nil {
			return iss
		}
	}

	return v.validateComposition(data, schema, path, cfg)
}

func (v *Validator) issue(path, message string) *issues.Issue {
	return &issues.Issue{Path: path, Message: message, Severity: severity.SeverityError}
}

func (v *Validator) isNullable(schema *parser.Schema) bool {
	if schema.Nullable {
		return true
	}
	for _, t := range getSchemaTypes(schema) {
		if t == "null" {
			return true
		}
	}
	return false
}

func (v *Validator) validateType(data any, schema *parser.Schema, path string) *issues.Issue {
	types := getSchemaTypes(schema)
	if len(types) == 0 {
		return nil
	}

	dataType := getDataType(data)
	for _, schemaType := range types {
		if !typeMatches(dataType, schemaType) {
			continue
		}
		if schemaType == "integer" && dataType == "number" {
			if f, ok := data.(float64); ok && f != float64(int64(f)) {
				msg := "value must be an integer"
				if !v.redactValues {
					msg = fmt.Sprintf("value must be an integer, got %v", f)
				}
				return v.issue(path, msg)
			}
		}
		return nil
	}

	return v.issue(path, fmt.Sprintf("expected type %s but got %s", strings.Join(types, " or "), dataType))
}

func (v *Validator) validateString(s string, schema *parser.Schema, path string) *issues.Issue {
	length := runeLen(s)

	if schema.MinLength != nil && length < *schema.MinLength {
		return v.issue(path, fmt.Sprintf("string length %d is less than minimum %d", length, *schema.MinLength))
	}
	if schema.MaxLength != nil && length > *schema.MaxLength {
		return v.issue(path, fmt.Sprintf("string length %d exceeds maximum %d", length, *schema.MaxLength))
	}
	if schema.Pattern != "" {
		matched, err := v.matchPattern(schema.Pattern, s)
		if err != nil {
			return v.issue(path, fmt.Sprintf("invalid pattern %q: %v", schema.Pattern, err))
		}
		if !matched {
			return v.issue(path, fmt.Sprintf("string does not match pattern %q", schema.Pattern))
		}
	}
	if schema.Format != "" {
		if iss := v.validateFormat(s, schema.Format, path); iss != nil {
			return iss
		}
	}
	return nil
}

func (v *Validator) validateNumber(n float64, schema *parser.Schema, path string) *issues.Issue {
	if schema.Minimum != nil {
		excl := isExclusiveMinimum(schema)
		if excl && n <= *schema.Minimum {
			return v.issue(path, fmt.Sprintf("value %v must be greater than %v", n, *schema.Minimum))
		}
		if !excl && n < *schema.Minimum {
			return v.issue(path, fmt.Sprintf("value %v is less than minimum %v", n, *schema.Minimum))
		}
	}
	if schema.Maximum != nil {
		excl := isExclusiveMaximum(schema)
		if excl && n >= *schema.Maximum {
			return v.issue(path, fmt.Sprintf("value %v must be less than %v", n, *schema.Maximum))
		}
		if !excl && n > *schema.Maximum {
			return v.issue(path, fmt.Sprintf("value %v exceeds maximum %v", n, *schema.Maximum))
		}
	}
	if schema.MultipleOf != nil && *schema.MultipleOf != 0 {
		remainder := n / *schema.MultipleOf
		if remainder != float64(int64(remainder)) {
			return v.issue(path, fmt.Sprintf("value %v is not a multiple of %v", n, *schema.MultipleOf))
		}
	}
	return nil
}

func (v *Validator) validateArray(arr []any, schema *parser.Schema, path string, cfg Config) *issues.Issue {
	if schema.MinItems != nil && len(arr) < *schema.MinItems {
		return v.issue(path, fmt.Sprintf("array has %d items, minimum is %d", len(arr), *schema.MinItems))
	}
	if schema.MaxItems != nil && len(arr) > *schema.MaxItems {
		return v.issue(path, fmt.Sprintf("array has %d items, maximum is %d", len(arr), *schema.MaxItems))
	}
	if schema.UniqueItems && hasDuplicates(arr) {
		return v.issue(path, "array items must be unique")
	}
	if itemSchema := getItemsSchema(schema); itemSchema != nil {
		for i, item := range arr {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			if iss := v.Validate(item, itemSchema, itemPath, cfg); iss != nil {
				return iss
			}
		}
	}
	return nil
}

func (v *Validator) validateObject(obj map[string]any, schema *parser.Schema, path string, cfg Config) *issues.Issue {
	for _, req := range schema.Required {
		if _, exists := obj[req]; !exists {
			return v.issue(path+"."+req, fmt.Sprintf("required property %q is missing", req))
		}
	}
	if schema.MinProperties != nil && len(obj) < *schema.MinProperties {
		return v.issue(path, fmt.Sprintf("object has %d properties, minimum is %d", len(obj), *schema.MinProperties))
	}
	if schema.MaxProperties != nil && len(obj) > *schema.MaxProperties {
		return v.issue(path, fmt.Sprintf("object has %d properties, maximum is %d", len(obj), *schema.MaxProperties))
	}
	for name, value := range obj {
		if propSchema, ok := schema.Properties[name]; ok {
			propPath := path + "." + name
			if iss := v.Validate(value, propSchema, propPath, cfg); iss != nil {
				return iss
			}
		}
	}
	if allowed, ok := schema.AdditionalProperties.(bool); ok && !allowed {
		for name := range obj {
			if _, defined := schema.Properties[name]; !defined {
				return v.issue(path+"."+name, fmt.Sprintf("additional property %q is not allowed", name))
			}
		}
	}
	return nil
}

func (v *Validator) validateEnum(data any, schema *parser.Schema, path string) *issues.Issue {
	for _, allowed := range schema.Enum {
		if reflect.DeepEqual(data, allowed) {
			return nil
		}
	}
	msg := "value is not one of the allowed values"
	if !v.redactValues {
		msg = fmt.Sprintf("value %v is not one of the allowed values", data)
	}
	return v.issue(path, msg)
}

func (v *Validator) validateComposition(data any, schema *parser.Schema, path string, cfg Config) *issues.Issue {
	if len(schema.AllOf) > 0 {
		for i, sub := range schema.AllOf {
			if iss := v.Validate(data, sub, path, cfg); iss != nil {
				return v.issue(path, fmt.Sprintf("allOf[%d] validation failed: %s", i, iss.Message))
			}
		}
	}

	if len(schema.AnyOf) > 0 {
		matched := false
		for _, sub := range schema.AnyOf {
			if v.Validate(data, sub, path, cfg) == nil {
				matched = true
				break
			}
		}
		if !matched {
			return v.issue(path, "value does not match any of the anyOf schemas")
		}
	}

	if len(schema.OneOf) > 0 {
		matchCount := 0
		for _, sub := range schema.OneOf {
			if v.Validate(data, sub, path, cfg) == nil {
				matchCount++
			}
		}
		if matchCount == 0 {
			return v.issue(path, "value does not match any of the oneOf schemas")
		}
		if matchCount > 1 {
			return v.issue(path, fmt.Sprintf("value matches %d oneOf schemas, expected exactly 1", matchCount))
		}
	}

	return nil
}

// validateFormat checks common string formats. Format violations are
// warnings, not errors: a warning-severity issue is still returned as the
// "first failure," but callers deciding whether to reject a request may
// choose to only treat Error/Critical severities as blocking.
func (v *Validator) validateFormat(s, format, path string) *issues.Issue {
	var ok bool
	var label string
	switch format {
	case "email":
		ok, label = stringutil.IsValidEmail(s), "a valid email address"
	case "uri", "uri-reference":
		ok, label = isValidURI(s), "a valid URI"
	case "date":
		ok, label = dateRegex.MatchString(s), "a valid date (expected YYYY-MM-DD)"
	case "date-time":
		ok, label = dateTimeRegex.MatchString(s), "a valid date-time (expected RFC 3339)"
	case "uuid":
		ok, label = uuidRegex.MatchString(s), "a valid UUID"
	default:
		return nil
	}
	if ok {
		return nil
	}
	msg := "value is not " + label
	if !v.redactValues {
		msg = fmt.Sprintf("%q is not %s", s, label)
	}
	return &issues.Issue{Path: path, Message: msg, Severity: severity.SeverityWarning}
}

// maxPatternCacheSize bounds the compiled-regex cache; exceeding it clears
// the cache rather than growing unboundedly for specs with many unique
// patterns.
const maxPatternCacheSize = 1000

func (v *Validator) matchPattern(pattern, s string) (bool, error) {
	if cached, ok := v.patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(s), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}

	if v.patternCount.Add(1) > maxPatternCacheSize {
		v.patternCache.Range(func(key, _ any) bool {
			v.patternCache.Delete(key)
			return true
		})
		v.patternCount.Store(1)
	}
	v.patternCache.Store(pattern, re)
	return re.MatchString(s), nil
}

var (
	uuidRegex     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	dateRegex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
)

func isValidURI(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.Contains(s, "://")
}

func getSchemaTypes(schema *parser.Schema) []string {
	if schema.Type == nil {
		return nil
	}
	switch t := schema.Type.(type) {
	case string:
		return []string{t}
	case []any:
		types := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok {
				types = append(types, s)
			}
		}
		return types
	case []string:
		return t
	}
	return nil
}

func getDataType(data any) string {
	if data == nil {
		return "null"
	}
	switch data.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case int, int32, int64, uint, uint32, uint64:
		return "integer"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		rv := reflect.ValueOf(data)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return "array"
		case reflect.Map:
			return "object"
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return "integer"
		case reflect.Float32, reflect.Float64:
			return "number"
		case reflect.String:
			return "string"
		case reflect.Bool:
			return "boolean"
		}
		return "unknown"
	}
}

func typeMatches(dataType, schemaType string) bool {
	if dataType == schemaType {
		return true
	}
	if schemaType == "number" && dataType == "integer" {
		return true
	}
	if schemaType == "integer" && dataType == "number" {
		return true // fractional part checked separately
	}
	return false
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case float64:
		return n
	case float32:
		return float64(n)
	}
	return 0
}

func isExclusiveMinimum(schema *parser.Schema) bool {
	if b, ok := schema.ExclusiveMinimum.(bool); ok {
		return b
	}
	return false
}

func isExclusiveMaximum(schema *parser.Schema) bool {
	if b, ok := schema.ExclusiveMaximum.(bool); ok {
		return b
	}
	return false
}

func hasDuplicates(arr []any) bool {
	seen := make(map[string]bool, len(arr))
	for _, item := range arr {
		key := fmt.Sprintf("%T:%v", item, item)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

func getItemsSchema(schema *parser.Schema) *parser.Schema {
	if s, ok := schema.Items.(*parser.Schema); ok {
		return s
	}
	return nil
}
