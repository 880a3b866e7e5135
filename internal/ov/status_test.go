package ov

import (
	"errors"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		code StatusCode
		want error
	}{
		{StatusOK, nil},
		{StatusGeneralError, ErrGeneral},
		{StatusNotImplemented, ErrNotImplemented},
		{StatusModelNotLoaded, ErrModelNotLoaded},
		{StatusParameterMismatch, ErrParameterMismatch},
		{StatusNotFound, ErrNotFound},
		{StatusOutOfBounds, ErrOutOfBounds},
		{StatusUnexpected, ErrUnexpected},
		{StatusResourceBusy, ErrResourceBusy},
		{StatusResultNotReady, ErrResultNotReady},
		{StatusNotAllocated, ErrNotAllocated},
		{StatusInferNotStarted, ErrInferNotStarted},
		{StatusModelNotReady, ErrModelNotReady},
	}

	for _, tt := range tests {
		got := tt.code.Err()
		if got != tt.want {
			t.Errorf("code %d: expected %v, got %v", tt.code, tt.want, got)
		}
	}
}

func TestStatusMappingTotal(t *testing.T) {
	known := map[error]bool{
		ErrGeneral: true, ErrNotImplemented: true, ErrModelNotLoaded: true,
		ErrParameterMismatch: true, ErrNotFound: true, ErrOutOfBounds: true,
		ErrUnexpected: true, ErrResourceBusy: true, ErrResultNotReady: true,
		ErrNotAllocated: true, ErrInferNotStarted: true, ErrModelNotReady: true,
		ErrUndefined: true,
	}

	// Every code maps to exactly one variant; nothing panics, nothing
	// escapes the closed set.
	for c := int32(-1000); c <= 1000; c++ {
		err := StatusCode(c).Err()
		if c == 0 {
			if err != nil {
				t.Fatalf("code 0: expected success, got %v", err)
			}
			continue
		}
		if !known[err] {
			t.Fatalf("code %d mapped outside the closed set: %v", c, err)
		}
	}

	// Extremes hit the catch-all.
	for _, c := range []StatusCode{1 << 30, -(1 << 30), 2147483647, -2147483648} {
		if err := c.Err(); !errors.Is(err, ErrUndefined) {
			t.Errorf("code %d: expected ErrUndefined, got %v", c, err)
		}
	}
}

func TestStatusMappingDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := StatusNotFound.Err(); got != ErrNotFound {
			t.Fatalf("iteration %d: mapping changed to %v", i, got)
		}
	}
}

func TestStatusErrWrapsSentinel(t *testing.T) {
	err := statusErr("set_blob", StatusParameterMismatch)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrParameterMismatch) {
		t.Errorf("expected wrapped ErrParameterMismatch, got %v", err)
	}
	if statusErr("infer", StatusOK) != nil {
		t.Error("expected nil for StatusOK")
	}
}

func TestStatusString(t *testing.T) {
	if StatusOK.String() != "OK" {
		t.Errorf("unexpected String for OK: %s", StatusOK.String())
	}
	if StatusCode(99).String() != "status(99)" {
		t.Errorf("unexpected String for unknown code: %s", StatusCode(99).String())
	}
}
