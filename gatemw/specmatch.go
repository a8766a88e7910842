package gatemw

import (
	"strings"

	"github.com/apigate/apigate/gateerrors"
	"github.com/apigate/apigate/normpath"
	"github.com/apigate/apigate/specindex"
)

// specMatchStage resolves ex's method and path to a spec operation,
// seeding the Audit Context with the Operation Handle and endpoint
// before any later stage runs. Always enabled: routing is not a
// feature a deployment can opt out of.
type specMatchStage struct {
	index *specindex.Index
}

func (s *specMatchStage) IsEnabled() bool { return true }

func (s *specMatchStage) Handle(ex *Exchange, next Handler) *gateerrors.WireError {
	if werr := resolveOperation(s.index, ex); werr != nil {
		return werr
	}
	return next(ex)
}

// resolveOperation is shared between specMatchStage and the JWT+Scope
// stage's step 4a fallback (spec.md §4.8), which resolves the operation
// itself if an earlier stage hasn't already.
func resolveOperation(index *specindex.Index, ex *Exchange) *gateerrors.WireError {
	if ex.Audit.Operation != nil {
		return nil
	}

	path, err := index.NewPath(ex.RawPath)
	if err != nil {
		return gateerrors.New(gateerrors.CodeInvalidRequestPath, "")
	}

	method := strings.ToLower(ex.Method)
	op, ok := index.FindMatchingAPIPath(method, path)
	if !ok {
		if len(index.MethodAllowed(path)) > 0 {
			return gateerrors.New(gateerrors.CodeMethodNotAllowed, "")
		}
		return gateerrors.New(gateerrors.CodeInvalidRequestPath, "")
	}

	ex.PathValues = normpath.ExtractParams(op.PathTemplate, path)
	ex.Audit.Operation = &op
	ex.Audit.Endpoint = path.Normalised() + "@" + method
	return nil
}
