package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all fatal failure modes
type ErrorCode string

const (
	// ProjectNotFound indicates the project path does not exist or is not a directory
	ProjectNotFound ErrorCode = "PROJECT_NOT_FOUND"
	// DiscoveryFailed indicates the project files could not be enumerated
	DiscoveryFailed ErrorCode = "DISCOVERY_FAILED"
	// StatFailed indicates a discovered file could not be stat'ed
	StatFailed ErrorCode = "STAT_FAILED"
	// ConfigInvalid indicates the configuration file failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// NodeNotFound indicates a requested node is not part of the tree
	NodeNotFound ErrorCode = "NODE_NOT_FOUND"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Command     string `json:"command,omitempty"`
	Description string `json:"description"`
}

// CodeseekerError is an error with a stable code and suggested fixes
type CodeseekerError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a CodeseekerError, attaching the default fixes for its code
func New(code ErrorCode, message string, cause error) *CodeseekerError {
	return &CodeseekerError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *CodeseekerError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CodeseekerError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *CodeseekerError) WithDetails(details interface{}) *CodeseekerError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ProjectNotFound: {
		{
			Command:     "codeseeker tree --project <path>",
			Description: "Point --project at an existing directory",
		},
	},
	DiscoveryFailed: {
		{
			Command:     "codeseeker tree --filter '**/*.ts'",
			Description: "Check the file pattern and directory permissions",
		},
	},
	StatFailed: {
		{
			Description: "Check that files were not removed while the tree was being built",
		},
	},
	ConfigInvalid: {
		{
			Description: "Fix or remove .codeseeker/config.json",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}

// CodeOf returns the code of err when it is (or wraps) a CodeseekerError
func CodeOf(err error) (ErrorCode, bool) {
	for err != nil {
		if ce, ok := err.(*CodeseekerError); ok {
			return ce.Code, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return "", false
		}
		err = u.Unwrap()
	}
	return "", false
}
