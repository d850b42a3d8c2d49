package auth

import "errors"

var ErrCallbackNotSupported = errors.New("login callback is handled by the backend")

// OIDCError is a failed login. Code is the short reason shown on the callback page.
type OIDCError struct {
	Code    string
	Message string
}

func (e *OIDCError) Error() string {
	return e.Message
}
