package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoPhoto           = errors.New("no photo selected")
	ErrUpstreamStatus    = errors.New("upstream status error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrAnalysisNotFound  = errors.New("analysis not found")
	ErrTemporary         = errors.New("temporary failure")
)

// User-facing failure messages rendered in the outcome slot.
const (
	MsgNoPhoto       = "Please upload an outfit photo first."
	MsgAPIError      = "API error"
	MsgGenericFailed = "Something went wrong"
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
