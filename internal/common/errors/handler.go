// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"
)

// ToBPMN converts any error into the payload thrown back to the process
// engine. StandardErrors keep their code and retryability; everything else
// becomes a generic retryable failure so the process can decide.
func ToBPMN(err error) *BPMNError {
	var se *StandardError
	if stderrors.As(err, &se) {
		return &BPMNError{
			Code:      string(se.Code),
			Message:   se.Message,
			Details:   se.Details,
			Retryable: se.Retryable,
		}
	}
	return &BPMNError{
		Code:      string(ErrCodeInternal),
		Message:   err.Error(),
		Retryable: true,
	}
}

// IsRetryable reports whether a failed job should be retried rather than
// escalated as a BPMN error.
func IsRetryable(err error) bool {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Retryable
	}
	return true
}

// AsStandard unwraps err to the StandardError in its chain, if any.
func AsStandard(err error) (*StandardError, bool) {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}
