// Package normpath provides the Normalised Path value type: a request path
// stripped of its base path, guaranteed to start with a slash, and split
// into segments for matching against path templates.
package normpath

import (
	"errors"
	"strings"
)

// ErrEmptyPath is returned by New when path is empty.
var ErrEmptyPath = errors.New("normpath: path must not be empty")

// Path is an immutable, normalised request or template path.
type Path struct {
	original   string
	normalised string
	parts      []string
}

// New builds a Path from a raw path and the API's configured base path.
// If basePath is non-empty and the path starts with it, exactly one
// occurrence of basePath is stripped before normalisation. The result
// always starts with a leading slash.
func New(path, basePath string) (Path, error) {
	if path == "" {
		return Path{}, ErrEmptyPath
	}

	original := path
	stripped := path
	if basePath != "" && strings.HasPrefix(stripped, basePath) {
		stripped = stripped[len(basePath):]
	}
	if !strings.HasPrefix(stripped, "/") {
		stripped = "/" + stripped
	}

	return Path{
		original:   original,
		normalised: stripped,
		parts:      splitParts(stripped),
	}, nil
}

// MustNew is like New but panics on error. Intended for package-init-time
// construction of known-good path templates, not for request paths.
func MustNew(path, basePath string) Path {
	p, err := New(path, basePath)
	if err != nil {
		panic(err)
	}
	return p
}

func splitParts(normalised string) []string {
	trimmed := strings.Trim(normalised, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Original returns the path exactly as it was supplied to New.
func (p Path) Original() string {
	return p.original
}

// Normalised returns the base-path-stripped, leading-slash-guaranteed form.
func (p Path) Normalised() string {
	return p.normalised
}

// Parts returns the path's segments, split on '/', with no leading or
// trailing empty segment.
func (p Path) Parts() []string {
	return p.parts
}

// Part returns the i'th segment, or "" if i is out of range.
func (p Path) Part(i int) string {
	if i < 0 || i >= len(p.parts) {
		return ""
	}
	return p.parts[i]
}

// IsParam reports whether the i'th segment is a path template parameter,
// i.e. of the form "{name}".
func (p Path) IsParam(i int) bool {
	seg := p.Part(i)
	return len(seg) >= 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}

// ParamName returns the parameter name of the i'th segment (with the
// surrounding braces stripped), or "" if the segment is not a parameter.
func (p Path) ParamName(i int) string {
	if !p.IsParam(i) {
		return ""
	}
	seg := p.Part(i)
	return seg[1 : len(seg)-1]
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.parts)
}

// String returns the normalised form.
func (p Path) String() string {
	return p.normalised
}

// ExtractParams pairs template's parameter segments with request's
// segments at the same positions, returning a map of parameter name to
// captured value. Callers are expected to have already matched template
// against request (e.g. via pathrouter); behavior is undefined if the
// two paths have different segment counts.
func ExtractParams(template, request Path) map[string]string {
	params := make(map[string]string)
	for i := 0; i < template.Len(); i++ {
		if name := template.ParamName(i); name != "" {
			params[name] = request.Part(i)
		}
	}
	return params
}
