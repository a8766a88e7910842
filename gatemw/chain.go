package gatemw

import "github.com/apigate/apigate/gateerrors"

// Handler is a step in the chain: either the next middleware or, at the
// innermost position, the business handler's adapter.
type Handler func(ex *Exchange) *gateerrors.WireError

// Middleware is one stage of the chain: {handle(exchange), next,
// isEnabled, register} per spec.md §4.8, modeled as Handle(ex, next) so
// a disabled stage is simply skipped when the chain is built.
type Middleware interface {
	// IsEnabled reports whether this stage participates in the chain.
	IsEnabled() bool
	// Handle runs the stage's logic, then forwards to next if it admits
	// the exchange. Per invariant I4, a stage must not both write an
	// error status and call next.
	Handle(ex *Exchange, next Handler) *gateerrors.WireError
}

// Chain composes Middleware stages left-to-right; the last stage wraps
// the business handler directly.
type Chain struct {
	stages []Middleware
}

// NewChain builds an empty Chain. Use Register to add stages, or New to
// build the standard spec-match/JWT+Scope/request-validate/
// response-validate chain.
func NewChain() *Chain {
	return &Chain{}
}

// Register appends m to the chain.
func (c *Chain) Register(m Middleware) {
	c.stages = append(c.stages, m)
}

// Serve runs the chain against ex, invoking handler as the innermost
// step once every enabled stage ahead of it has admitted the exchange.
// handler is expected to populate ex.ResponseStatusCode/ResponseBody/
// ResponseMediaType before returning.
func (c *Chain) Serve(ex *Exchange, handler func(ex *Exchange)) *gateerrors.WireError {
	h := Handler(func(ex *Exchange) *gateerrors.WireError {
		handler(ex)
		return nil
	})

	for i := len(c.stages) - 1; i >= 0; i-- {
		stage := c.stages[i]
		if !stage.IsEnabled() {
			continue
		}
		next := h
		h = func(ex *Exchange) *gateerrors.WireError {
			return stage.Handle(ex, next)
		}
	}

	return h(ex)
}
