// Package apperr defines the client-facing error taxonomy. Handlers attach
// one of these to the gin context and abort; the error-normalizer middleware
// turns it into the uniform {success:false, message} body.
package apperr

import "net/http"

type Kind int

const (
	KindValidation Kind = iota
	KindDuplicate
	KindAuth
	KindNotFound
	KindUpstream
	KindInternal
)

// Error carries an HTTP status and a human-readable message. The wrapped
// cause is for server logs only and is never sent to the client.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func Duplicate(message string) *Error {
	return &Error{Kind: KindDuplicate, Status: http.StatusBadRequest, Message: message}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusBadRequest, Message: message}
}

// Unauthorized is for missing or unverifiable tokens, as opposed to bad
// credentials on the login form.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Status: http.StatusBadGateway, Message: message, Err: err}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: message, Err: err}
}
