// internal/common/errors/errors.go
package errors

import (
	"fmt"
	"time"
)

type ErrorCode string

const (
	// Profile / input errors
	ErrCodeParseError         ErrorCode = "PARSE_ERROR"
	ErrCodeProfileParseFailed ErrorCode = "PROFILE_PARSE_FAILED"

	// Catalog errors
	ErrCodeCatalogLoadFailed  ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogRowInvalid  ErrorCode = "CATALOG_ROW_INVALID"
	ErrCodeCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"

	// Engine errors
	ErrCodeMatchingFailed       ErrorCode = "MATCHING_FAILED"
	ErrCodeRecommendationFailed ErrorCode = "RECOMMENDATION_FAILED"

	// Infrastructure errors
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeExternalServiceError     ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout                  ErrorCode = "TIMEOUT"
	ErrCodeInternal                 ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the structured error carried across worker boundaries.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// BPMNError is the payload attached to a thrown Zeebe job error.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func NewCatalogLoadError(dataset string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   fmt.Sprintf("failed to load %s catalog", dataset),
		Details:   cause.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"dataset": dataset},
		Timestamp: time.Now(),
	}
}

func NewCatalogRowError(dataset string, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogRowInvalid,
		Message:   fmt.Sprintf("invalid %s catalog row", dataset),
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"dataset": dataset},
		Timestamp: time.Now(),
	}
}

func NewMatchingError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchingFailed,
		Message:   "bank program matching failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now(),
	}
}

func NewRecommendationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecommendationFailed,
		Message:   "scheme recommendation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now(),
	}
}

func NewExternalServiceError(service string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalServiceError,
		Message:   fmt.Sprintf("external service %s failed", service),
		Details:   cause.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"service": service},
		Timestamp: time.Now(),
	}
}

func NewTimeoutError(service string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("operation against %s timed out", service),
		Details:   cause.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"service": service},
		Timestamp: time.Now(),
	}
}
