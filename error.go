package hbridge

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Code is an error code that mirrors the http status codes. Handlers return an [*Error] carrying one of these
// to have the bridge answer with that status instead of a generic 500.
type Code int

const (
	CodeUnknown                       Code = 0
	CodeBadRequest                    Code = http.StatusBadRequest                    // RFC 9110, 15.5.1
	CodeUnauthorized                  Code = http.StatusUnauthorized                  // RFC 9110, 15.5.2
	CodePaymentRequired               Code = http.StatusPaymentRequired               // RFC 9110, 15.5.3
	CodeForbidden                     Code = http.StatusForbidden                     // RFC 9110, 15.5.4
	CodeNotFound                      Code = http.StatusNotFound                      // RFC 9110, 15.5.5
	CodeMethodNotAllowed              Code = http.StatusMethodNotAllowed              // RFC 9110, 15.5.6
	CodeNotAcceptable                 Code = http.StatusNotAcceptable                 // RFC 9110, 15.5.7
	CodeRequestTimeout                Code = http.StatusRequestTimeout                // RFC 9110, 15.5.9
	CodeConflict                      Code = http.StatusConflict                      // RFC 9110, 15.5.10
	CodeGone                          Code = http.StatusGone                          // RFC 9110, 15.5.11
	CodePreconditionFailed            Code = http.StatusPreconditionFailed            // RFC 9110, 15.5.13
	CodeRequestEntityTooLarge         Code = http.StatusRequestEntityTooLarge         // RFC 9110, 15.5.14
	CodeUnsupportedMediaType          Code = http.StatusUnsupportedMediaType          // RFC 9110, 15.5.16
	CodeUnprocessableEntity           Code = http.StatusUnprocessableEntity           // RFC 9110, 15.5.21
	CodeTooManyRequests               Code = http.StatusTooManyRequests               // RFC 6585, 4
	CodeRequestHeaderFieldsTooLarge   Code = http.StatusRequestHeaderFieldsTooLarge   // RFC 6585, 5
	CodeUnavailableForLegalReasons    Code = http.StatusUnavailableForLegalReasons    // RFC 7725, 3
	CodeInternalServerError           Code = http.StatusInternalServerError           // RFC 9110, 15.6.1
	CodeNotImplemented                Code = http.StatusNotImplemented                // RFC 9110, 15.6.2
	CodeBadGateway                    Code = http.StatusBadGateway                    // RFC 9110, 15.6.3
	CodeServiceUnavailable            Code = http.StatusServiceUnavailable            // RFC 9110, 15.6.4
	CodeGatewayTimeout                Code = http.StatusGatewayTimeout                // RFC 9110, 15.6.5
	CodeNetworkAuthenticationRequired Code = http.StatusNetworkAuthenticationRequired // RFC 6585, 6
)

// Text returns the status text for the code, or "Unknown".
func (c Code) Text() string {
	if s := http.StatusText(int(c)); s != "" {
		return s
	}

	return "Unknown"
}

// Error is the routed application error: a status code plus the message shown to the client.
type Error struct {
	code Code
	msg  string
	err  error
}

// NewError inits a new error given the error code. The underlying error's text becomes the message.
func NewError(c Code, underlying error) *Error {
	return &Error{code: c, err: underlying}
}

// Errorf inits a new error with a formatted client-facing message.
func Errorf(c Code, format string, args ...any) *Error {
	return &Error{code: c, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Code() Code { return e.code }
func (e *Error) Unwrap() error { return e.err }

// Message is the text rendered into the response body.
func (e *Error) Message() string {
	switch {
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		return e.code.Text()
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.code.Text(), e.Message())
}

// CodeOf returns the error's status code if it is or wraps an [*Error] and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	if herr, ok := asError(err); ok {
		return herr.Code()
	}
	return CodeUnknown
}

// asError uses errors.As to unwrap any error and look for an *Error.
func asError(err error) (*Error, bool) {
	var herr *Error
	ok := errors.As(err, &herr)
	return herr, ok
}

var (
	// ErrNext can be returned by a handler to yield to the next handler registered for the same route.
	ErrNext = errors.New("hbridge: yield to next handler")

	// ErrResponseSent is returned when writing through a response that was already sent.
	ErrResponseSent = errors.New("hbridge: response already sent")

	// ErrBufferFull is returned when a handler writes more than the configured buffer limit.
	ErrBufferFull = errors.New("hbridge: response buffer limit exceeded")
)
