package gatemw

import (
	"github.com/apigate/apigate/gateerrors"
	"github.com/apigate/apigate/parser"
	"github.com/apigate/apigate/requestvalidator"
)

// requestValidateStage validates the exchange's path, query, header, and
// body parameters against the matched operation before the business
// handler runs.
type requestValidateStage struct {
	validator          *requestvalidator.Validator
	enabled            bool
	skipBodyValidation bool
	logError           bool
	logger             parser.Logger
}

func (s *requestValidateStage) IsEnabled() bool { return s.enabled }

func (s *requestValidateStage) Handle(ex *Exchange, next Handler) *gateerrors.WireError {
	op := ex.Audit.Operation
	reqEx := requestvalidator.Exchange{
		Method:             ex.Method,
		QueryValues:        ex.QueryValues,
		Header:             ex.Header,
		PathValues:         ex.PathValues,
		Body:               ex.Body,
		SkipBodyValidation: s.skipBodyValidation || ex.SkipBodyValidation,
	}
	reqOp := requestvalidator.Operation{
		PathParameters: op.PathItem.Parameters,
		Parameters:     op.Op.Parameters,
		RequestBody:    op.Op.RequestBody,
	}

	if werr := s.validator.Validate(reqEx, reqOp); werr != nil {
		if s.logError && s.logger != nil {
			s.logger.Error("request validation failed", "endpoint", ex.Audit.Endpoint, "code", werr.Code, "message", werr.Message)
		}
		return werr
	}
	return next(ex)
}
