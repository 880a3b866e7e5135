package ov

import (
	"errors"
	"fmt"
)

// StatusCode is the engine's native integer result code. Zero is success;
// every negative value the engine defines has a matching sentinel error
// below. Codes outside the defined range map to ErrUndefined.
type StatusCode int32

const (
	StatusOK                StatusCode = 0
	StatusGeneralError      StatusCode = -1
	StatusNotImplemented    StatusCode = -2
	StatusModelNotLoaded    StatusCode = -3
	StatusParameterMismatch StatusCode = -4
	StatusNotFound          StatusCode = -5
	StatusOutOfBounds       StatusCode = -6
	StatusUnexpected        StatusCode = -7
	StatusResourceBusy      StatusCode = -8
	StatusResultNotReady    StatusCode = -9
	StatusNotAllocated      StatusCode = -10
	StatusInferNotStarted   StatusCode = -11
	StatusModelNotReady     StatusCode = -12
)

// Sentinel errors for use with errors.Is(). The set is closed: callers can
// match on these without parsing error text.
var (
	ErrGeneral           = errors.New("ov: general error")
	ErrNotImplemented    = errors.New("ov: not implemented")
	ErrModelNotLoaded    = errors.New("ov: model not loaded")
	ErrParameterMismatch = errors.New("ov: parameter mismatch")
	ErrNotFound          = errors.New("ov: not found")
	ErrOutOfBounds       = errors.New("ov: out of bounds")
	ErrUnexpected        = errors.New("ov: unexpected")
	ErrResourceBusy      = errors.New("ov: resource busy")
	ErrResultNotReady    = errors.New("ov: result not ready")
	ErrNotAllocated      = errors.New("ov: not allocated")
	ErrInferNotStarted   = errors.New("ov: inference not started")
	ErrModelNotReady     = errors.New("ov: model not ready")
	ErrUndefined         = errors.New("ov: undefined status")
)

// Contract violations on the Go side, not native statuses.
var (
	ErrClosed   = errors.New("ov: handle is closed")
	ErrConsumed = errors.New("ov: network already compiled")
)

// Err maps a native status code to its sentinel error. The mapping is total
// and deterministic: StatusOK yields nil, each defined code yields its
// sentinel, and everything else yields ErrUndefined.
func (c StatusCode) Err() error {
	switch c {
	case StatusOK:
		return nil
	case StatusGeneralError:
		return ErrGeneral
	case StatusNotImplemented:
		return ErrNotImplemented
	case StatusModelNotLoaded:
		return ErrModelNotLoaded
	case StatusParameterMismatch:
		return ErrParameterMismatch
	case StatusNotFound:
		return ErrNotFound
	case StatusOutOfBounds:
		return ErrOutOfBounds
	case StatusUnexpected:
		return ErrUnexpected
	case StatusResourceBusy:
		return ErrResourceBusy
	case StatusResultNotReady:
		return ErrResultNotReady
	case StatusNotAllocated:
		return ErrNotAllocated
	case StatusInferNotStarted:
		return ErrInferNotStarted
	case StatusModelNotReady:
		return ErrModelNotReady
	default:
		return ErrUndefined
	}
}

func (c StatusCode) String() string {
	if c == StatusOK {
		return "OK"
	}
	err := c.Err()
	if err == ErrUndefined {
		return fmt.Sprintf("status(%d)", int32(c))
	}
	return err.Error()
}

// statusErr wraps a failing status with the operation that produced it and
// records it in the bridge metrics. Returns nil for StatusOK.
func statusErr(op string, c StatusCode) error {
	err := c.Err()
	if err == nil {
		return nil
	}
	recordBridgeError(op, c)
	return fmt.Errorf("%s: %w", op, err)
}
