// Package specindex builds a process-wide, build-once-read-many index over
// a parsed OpenAPI/Swagger document: base path, oauth2 security scheme
// names, and a path router table keyed by HTTP method.
package specindex

import (
	"fmt"

	"github.com/apigate/apigate/normpath"
	"github.com/apigate/apigate/parser"
	"github.com/apigate/apigate/pathrouter"
)

// Operation is a resolved, routable operation: its path template, the
// PathItem it lives on, its lowercased HTTP method, and the Operation
// object itself.
type Operation struct {
	PathTemplate normpath.Path
	PathItem     *parser.PathItem
	Method       string
	Op           *parser.Operation
}

// RequiredScopes returns the scopes required by the first security
// requirement in op's (or, absent that, the document's) security list that
// references an oauth2-type scheme declared by the spec.
//
// first-oauth2-requirement-wins: when multiple security requirements are
// present, only the first one referencing an oauth2 scheme is honored;
// later requirements are never consulted, even if they also reference
// oauth2 schemes. Later requirements expressing AND-style multi-scheme
// auth are therefore unreachable by scope checking. This mirrors documented
// upstream behavior and is preserved rather than "fixed".
func (op Operation) RequiredScopes(idx *Index) ([]string, bool) {
	reqs := op.Op.Security
	if reqs == nil {
		reqs = idx.docSecurity
	}
	for _, req := range reqs {
		for scheme, scopes := range req {
			if idx.oauth2Schemes[scheme] {
				return scopes, true
			}
		}
	}
	return nil, false
}

// Index is the immutable, process-wide view over a parsed spec document.
// Build it once at startup with New; every method is safe for concurrent
// use without locking because nothing mutates after New returns.
type Index struct {
	result        *parser.ParseResult
	basePath      string
	oauth2Schemes map[string]bool
	docSecurity   []parser.SecurityRequirement
	table         *pathrouter.Table
}

// New builds an Index from a successfully parsed spec document.
func New(result *parser.ParseResult, opts ...Option) (*Index, error) {
	if result == nil {
		return nil, fmt.Errorf("specindex: nil parse result")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("specindex: %w", err)
		}
	}

	idx := &Index{result: result, table: pathrouter.NewTable()}

	switch doc := result.Document.(type) {
	case *parser.OAS3Document:
		idx.basePath = basePathFromServers(doc.Servers)
		idx.docSecurity = doc.Security
		idx.oauth2Schemes = oauth2SchemeNamesOAS3(doc)
		if err := idx.indexOAS3Paths(doc); err != nil {
			return nil, err
		}
	case *parser.OAS2Document:
		idx.basePath = doc.BasePath
		idx.docSecurity = doc.Security
		idx.oauth2Schemes = oauth2SchemeNamesOAS2(doc)
		if err := idx.indexOAS2Paths(doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("specindex: unsupported document type %T", result.Document)
	}

	if cfg.basePathOverride != "" {
		idx.basePath = cfg.basePathOverride
	}

	idx.table.Build()
	return idx, nil
}

// BasePath returns the spec's configured base path, or "" if none.
func (idx *Index) BasePath() string {
	return idx.basePath
}

// IsOAS3 reports whether the indexed document is OpenAPI 3.x rather than
// Swagger 2.0. The middleware chain's scope-check stage only runs for
// OAS3 documents per spec.md §4.8 step 4.
func (idx *Index) IsOAS3() bool {
	return idx.result.OASVersion >= parser.OASVersion300
}

// NewPath normalises a raw request path against this index's base path.
func (idx *Index) NewPath(raw string) (normpath.Path, error) {
	return normpath.New(raw, idx.basePath)
}

// FindMatchingAPIPath resolves method+path to an Operation. ok is false if
// no template matches path at all (ERR10007) or a template matches but not
// for method (ERR10008, distinguishable via MethodAllowed).
func (idx *Index) FindMatchingAPIPath(method string, path normpath.Path) (Operation, bool) {
	tmpl, ok := idx.table.Match(method, path)
	if !ok {
		return Operation{}, false
	}
	return tmpl.Value.(Operation), true
}

// MethodAllowed reports whether path matches some template under any
// method, distinguishing "no such path" from "path exists, wrong method".
func (idx *Index) MethodAllowed(path normpath.Path) []string {
	return idx.table.PathMatchesAnyMethod(path)
}

func (idx *Index) indexOAS3Paths(doc *parser.OAS3Document) error {
	for rawPath, item := range doc.Paths {
		if item == nil {
			continue
		}
		tmplPath, err := normpath.New(rawPath, "")
		if err != nil {
			return fmt.Errorf("specindex: invalid path template %q: %w", rawPath, err)
		}
		for method, op := range parser.GetOAS3Operations(item) {
			if op == nil {
				continue
			}
			idx.table.Add(method, pathrouter.Template{
				Path: tmplPath,
				Value: Operation{
					PathTemplate: tmplPath,
					PathItem:     item,
					Method:       method,
					Op:           op,
				},
			})
		}
	}
	return nil
}

func (idx *Index) indexOAS2Paths(doc *parser.OAS2Document) error {
	for rawPath, item := range doc.Paths {
		if item == nil {
			continue
		}
		tmplPath, err := normpath.New(rawPath, "")
		if err != nil {
			return fmt.Errorf("specindex: invalid path template %q: %w", rawPath, err)
		}
		for method, op := range parser.GetOAS2Operations(item) {
			if op == nil {
				continue
			}
			idx.table.Add(method, pathrouter.Template{
				Path: tmplPath,
				Value: Operation{
					PathTemplate: tmplPath,
					PathItem:     item,
					Method:       method,
					Op:           op,
				},
			})
		}
	}
	return nil
}

// basePathFromServers returns the path component of the first server URL,
// per OAS3's basePath convention.
func basePathFromServers(servers []*parser.Server) string {
	if len(servers) == 0 || servers[0] == nil {
		return ""
	}
	return pathFromServerURL(servers[0].URL)
}

// pathFromServerURL extracts the path component from a server URL,
// tolerating bare-path server entries (no scheme/host) and templated
// server variables left unresolved.
func pathFromServerURL(serverURL string) string {
	idx := indexOfPathStart(serverURL)
	if idx < 0 {
		return ""
	}
	return serverURL[idx:]
}

// indexOfPathStart finds where the path component of a URL begins: after
// "://host" if a scheme is present, or at the start if serverURL is
// already a bare path.
func indexOfPathStart(serverURL string) int {
	const schemeSep = "://"
	for i := 0; i+len(schemeSep) <= len(serverURL); i++ {
		if serverURL[i:i+len(schemeSep)] == schemeSep {
			rest := serverURL[i+len(schemeSep):]
			for j, c := range rest {
				if c == '/' {
					return i + len(schemeSep) + j
				}
			}
			return -1
		}
	}
	if len(serverURL) > 0 && serverURL[0] == '/' {
		return 0
	}
	return -1
}

func oauth2SchemeNamesOAS3(doc *parser.OAS3Document) map[string]bool {
	names := make(map[string]bool)
	if doc.Components == nil {
		return names
	}
	for name, scheme := range doc.Components.SecuritySchemes {
		if scheme != nil && scheme.Type == "oauth2" {
			names[name] = true
		}
	}
	return names
}

func oauth2SchemeNamesOAS2(doc *parser.OAS2Document) map[string]bool {
	names := make(map[string]bool)
	for name, scheme := range doc.SecurityDefinitions {
		if scheme != nil && scheme.Type == "oauth2" {
			names[name] = true
		}
	}
	return names
}
