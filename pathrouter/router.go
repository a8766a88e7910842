// Package pathrouter matches a normalised request path against a set of
// OpenAPI path templates, selecting the most specific template that fits.
package pathrouter

import (
	"sort"
	"strings"

	"github.com/apigate/apigate/normpath"
)

// Template is one routable path template. Callers attach their own
// operation value via the Template's Value field rather than this package
// knowing about OAS operation objects; methods are tracked by Table.
type Template struct {
	Path  normpath.Path
	Value any
}

// Router holds path templates for a single HTTP method and finds the most
// specific match for an incoming path.
type Router struct {
	templates []Template
}

// New builds a Router from the given templates. Templates are pre-sorted
// by specificity (most literal segments first, then lexicographically by
// original template text) so that Match can return the first fit.
func New(templates []Template) *Router {
	sorted := make([]Template, len(templates))
	copy(sorted, templates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return moreSpecific(sorted[i].Path, sorted[j].Path)
	})
	return &Router{templates: sorted}
}

// literalCount returns the number of non-parameter segments in p.
func literalCount(p normpath.Path) int {
	n := 0
	for i := 0; i < p.Len(); i++ {
		if !p.IsParam(i) {
			n++
		}
	}
	return n
}

// moreSpecific reports whether a should be tried before b: greater literal
// segment count first, then lexicographically smaller original template
// text.
func moreSpecific(a, b normpath.Path) bool {
	la, lb := literalCount(a), literalCount(b)
	if la != lb {
		return la > lb
	}
	return strings.Compare(a.Original(), b.Original()) < 0
}

// Match finds the template matching requestPath: equal segment count,
// every literal segment byte-equal, every parameter segment matching any
// non-empty value. Returns the first match in the order templates are
// given (New sorts a Router's templates by specificity), or false if none
// match.
func Match(templates []Template, requestPath normpath.Path) (Template, bool) {
	for _, tmpl := range templates {
		if matches(tmpl.Path, requestPath) {
			return tmpl, true
		}
	}
	return Template{}, false
}

// Match finds the best-matching template for requestPath among the
// router's templates, already ordered by specificity.
func (r *Router) Match(requestPath normpath.Path) (Template, bool) {
	return Match(r.templates, requestPath)
}

// Templates returns the router's templates in specificity order.
func (r *Router) Templates() []Template {
	return r.templates
}

func matches(template, request normpath.Path) bool {
	if template.Len() != request.Len() {
		return false
	}
	for i := 0; i < template.Len(); i++ {
		if template.IsParam(i) {
			if request.Part(i) == "" {
				return false
			}
			continue
		}
		if template.Part(i) != request.Part(i) {
			return false
		}
	}
	return true
}
