package gatemw

import (
	"github.com/apigate/apigate/gateerrors"
	"github.com/apigate/apigate/parser"
	"github.com/apigate/apigate/responsevalidator"
)

// responseValidateStage runs the business handler and then validates the
// response body it produced against the matched operation's declared
// responses. Unlike every earlier stage, it calls next before doing its
// own work, since there is nothing to validate until the handler runs.
type responseValidateStage struct {
	validator *responsevalidator.Validator
	enabled   bool
	logError  bool
	logger    parser.Logger
}

func (s *responseValidateStage) IsEnabled() bool { return s.enabled }

func (s *responseValidateStage) Handle(ex *Exchange, next Handler) *gateerrors.WireError {
	if werr := next(ex); werr != nil {
		return werr
	}
	werr := s.validator.Validate(ex.ResponseBody, ex.Audit.Operation.Op, ex.ResponseStatusCode, ex.ResponseMediaType)
	if werr != nil && s.logError && s.logger != nil {
		s.logger.Error("response validation failed", "endpoint", ex.Audit.Endpoint, "code", werr.Code, "message", werr.Message)
	}
	return werr
}
