package pathrouter

import (
	"strings"

	"github.com/apigate/apigate/normpath"
)

// Table is a router keyed by lowercase HTTP method, built once over every
// operation in a parsed spec and read many times per request thereafter.
type Table struct {
	pending map[string][]Template
	built   map[string]*Router
}

// NewTable creates an empty, unbuilt Table.
func NewTable() *Table {
	return &Table{pending: make(map[string][]Template)}
}

// Add registers a template under method (case-insensitive). Must be
// called before Build; Add after Build panics.
func (t *Table) Add(method string, tmpl Template) {
	if t.built != nil {
		panic("pathrouter: Add called after Build")
	}
	m := strings.ToLower(method)
	t.pending[m] = append(t.pending[m], tmpl)
}

// Build compiles the accumulated templates into one specificity-ordered
// Router per method. The Table is immutable and safe for concurrent
// lookups after Build returns.
func (t *Table) Build() {
	built := make(map[string]*Router, len(t.pending))
	for method, templates := range t.pending {
		built[method] = New(templates)
	}
	t.built = built
	t.pending = nil
}

// Match finds the best template for method+path among templates
// registered for that method. method is matched case-insensitively.
func (t *Table) Match(method string, path normpath.Path) (Template, bool) {
	router, ok := t.built[strings.ToLower(method)]
	if !ok {
		return Template{}, false
	}
	return router.Match(path)
}

// Methods returns the set of HTTP methods (lowercase) registered with any
// template, regardless of whether any of them matches a given path. Used
// by callers that need to distinguish "no path matched" from "path
// matched but not for this method" (ERR10007 vs ERR10008).
func (t *Table) Methods() []string {
	source := t.built
	methods := make([]string, 0, len(source))
	for m := range source {
		methods = append(methods, m)
	}
	return methods
}

// PathMatchesAnyMethod reports whether path matches some template under
// any registered method, and if so returns the methods it matches under.
func (t *Table) PathMatchesAnyMethod(path normpath.Path) []string {
	var methods []string
	for method, router := range t.built {
		if _, ok := router.Match(path); ok {
			methods = append(methods, method)
		}
	}
	return methods
}
