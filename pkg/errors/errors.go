package errors

import "fmt"

// ErrorType identifies which stage of profile acquisition failed
type ErrorType string

const (
	ErrorTypeNetwork                 ErrorType = "network"
	ErrorTypeHTTPRequest             ErrorType = "http_request"
	ErrorTypeUserNotFound            ErrorType = "user_not_found"
	ErrorTypeResponseBody            ErrorType = "response_body"
	ErrorTypeProfileDataNotFound     ErrorType = "profile_data_not_found"
	ErrorTypeProfileDataDecodeFailed ErrorType = "profile_data_decode_failed"
	ErrorTypeProfileJSONParse        ErrorType = "profile_json_parse"
	ErrorTypeProfileJSONInvalid      ErrorType = "profile_json_invalid"
)

// Error is the single error value produced by the acquisition pipeline.
// Code is the HTTP status when one was received. Username is only set for
// ErrorTypeUserNotFound.
type Error struct {
	Type     ErrorType
	Message  string
	Code     int
	Username string
	Err      error
}

func (e *Error) Error() string {
	switch e.Type {
	case ErrorTypeUserNotFound:
		return fmt.Sprintf("user %q not found", e.Username)
	case ErrorTypeHTTPRequest:
		return fmt.Sprintf("HTTP request failed (status code: %d)", e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same type, so the
// package sentinels can be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Sentinels for errors.Is comparisons. Only Type is compared.
var (
	ErrNetwork                 = &Error{Type: ErrorTypeNetwork}
	ErrHTTPRequest             = &Error{Type: ErrorTypeHTTPRequest}
	ErrUserNotFound            = &Error{Type: ErrorTypeUserNotFound}
	ErrResponseBody            = &Error{Type: ErrorTypeResponseBody}
	ErrProfileDataNotFound     = &Error{Type: ErrorTypeProfileDataNotFound}
	ErrProfileDataDecodeFailed = &Error{Type: ErrorTypeProfileDataDecodeFailed}
	ErrProfileJSONParse        = &Error{Type: ErrorTypeProfileJSONParse}
	ErrProfileJSONInvalid      = &Error{Type: ErrorTypeProfileJSONInvalid}
)

// NewNetworkError wraps a transport failure
func NewNetworkError(err error) *Error {
	return &Error{
		Type:    ErrorTypeNetwork,
		Message: "a network error caused the request to fail",
		Err:     err,
	}
}

// NewHTTPRequestError reports a non-success status other than 404
func NewHTTPRequestError(statusCode int, err error) *Error {
	return &Error{
		Type:    ErrorTypeHTTPRequest,
		Message: "HTTP request failed",
		Code:    statusCode,
		Err:     err,
	}
}

// NewUserNotFound reports a 404 on the profile page
func NewUserNotFound(username string) *Error {
	return &Error{
		Type:     ErrorTypeUserNotFound,
		Message:  "user not found",
		Code:     404,
		Username: username,
	}
}

// NewResponseBodyError reports a body that could not be read to completion
func NewResponseBodyError(err error) *Error {
	return &Error{
		Type:    ErrorTypeResponseBody,
		Message: "error retrieving response body",
		Err:     err,
	}
}

func NewProfileDataNotFound() *Error {
	return &Error{
		Type:    ErrorTypeProfileDataNotFound,
		Message: "failed to find profile data",
	}
}

func NewProfileDataDecodeFailed() *Error {
	return &Error{
		Type:    ErrorTypeProfileDataDecodeFailed,
		Message: "failed to decode profile data",
	}
}

// NewProfileJSONParseError covers malformed JSON and profile records that
// are missing or mistyping a required field
func NewProfileJSONParseError(err error) *Error {
	return &Error{
		Type:    ErrorTypeProfileJSONParse,
		Message: "failed to parse profile json",
		Err:     err,
	}
}

// NewProfileJSONInvalid reports JSON that does not contain a profile at all
func NewProfileJSONInvalid(err error) *Error {
	return &Error{
		Type:    ErrorTypeProfileJSONInvalid,
		Message: "profile json data is invalid",
		Err:     err,
	}
}

// DownloadError identifies the media URL whose download failed
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of %s failed: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}
