package wecom

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned when the corp id or secret is empty.
	ErrMissingCredentials = errors.New("wecom: corp id and secret are required")
	// ErrUnexpectedStatus is returned for non-2xx HTTP responses.
	ErrUnexpectedStatus = errors.New("wecom: unexpected http status")
	// ErrEmptyResponse is returned when a successful response lacks the
	// expected identifier.
	ErrEmptyResponse = errors.New("wecom: empty response")
)

// APIError is a non-zero errcode returned by the WeCom API.
type APIError struct {
	Scene   string
	Code    int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown"
	}
	return fmt.Sprintf("%s failed: errcode=%d, errmsg=%s", e.Scene, e.Code, msg)
}

// RemoteCode returns the errcode.
func (e *APIError) RemoteCode() int {
	return e.Code
}

// envelope is embedded by every response body.
type envelope struct {
	ErrCode *int   `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

func (e envelope) check(scene string) error {
	code := -1
	if e.ErrCode != nil {
		code = *e.ErrCode
	}
	if code != 0 {
		return &APIError{Scene: scene, Code: code, Message: e.ErrMsg}
	}
	return nil
}

type response interface {
	check(scene string) error
}
