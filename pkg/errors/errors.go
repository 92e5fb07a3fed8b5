// Package errors provides coded errors shared by the CLI and the render
// service.
//
// Every failure a caller can act on carries a [Code]. The CLI prints the
// message; the service answers with the code and the HTTP status the code
// maps to:
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", f)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // ...
//	}
//
//	p := errors.ProblemOf(err) // {Status: 400, Code: "INVALID_FORMAT", ...}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

// Input errors.
const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidChart     Code = "INVALID_CHART"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeInvalidID        Code = "INVALID_ID"
)

// Lookup errors.
const (
	ErrCodeChartNotFound Code = "CHART_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
)

// Backend errors.
const (
	ErrCodeStorage     Code = "STORAGE_ERROR"
	ErrCodeRender      Code = "RENDER_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// statuses maps codes onto HTTP statuses. Missing codes are 500.
var statuses = map[Code]int{
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidChart:     http.StatusBadRequest,
	ErrCodeInvalidFormat:    http.StatusBadRequest,
	ErrCodeInvalidDimension: http.StatusBadRequest,
	ErrCodeInvalidID:        http.StatusBadRequest,
	ErrCodeChartNotFound:    http.StatusNotFound,
	ErrCodeFileNotFound:     http.StatusNotFound,
	ErrCodeStorage:          http.StatusServiceUnavailable,
	ErrCodeTimeout:          http.StatusGatewayTimeout,
	ErrCodeUnsupported:      http.StatusNotImplemented,
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus returns the status an API answers err with.
func HTTPStatus(err error) int {
	if s, ok := statuses[GetCode(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Problem is the JSON error body of the render service.
type Problem struct {
	Status  int    `json:"-"`
	Code    Code   `json:"code"`
	Message string `json:"error"`
}

// ProblemOf describes err for an API response. Uncoded errors become
// INTERNAL_ERROR with their full text as the message.
func ProblemOf(err error) Problem {
	p := Problem{Status: HTTPStatus(err), Code: ErrCodeInternal, Message: err.Error()}
	var e *Error
	if errors.As(err, &e) {
		p.Code, p.Message = e.Code, e.Message
	}
	return p
}
