package ov

import (
	"fmt"

	"github.com/23skdu/arbalest/internal/metrics"
)

// ExecutableNetwork is the immutable, device-compiled form of a Network.
// It can spawn any number of InferRequests; the requests may be used from
// different goroutines as long as each individual request stays on one.
type ExecutableNetwork struct {
	h      execHandle
	device string
	closed bool
}

// Device returns the device selector the network was compiled for.
func (e *ExecutableNetwork) Device() string { return e.device }

// CreateInferRequest allocates a fresh execution unit with its own blob
// bindings.
func (e *ExecutableNetwork) CreateInferRequest() (*InferRequest, error) {
	if e.closed {
		return nil, fmt.Errorf("ov: executable network: %w", ErrClosed)
	}
	h, st := bridgeCreateRequest(e.h)
	if err := statusErr("create_infer_request", st); err != nil {
		return nil, err
	}
	metrics.RecordRequestCreated()
	return &InferRequest{h: h}, nil
}

// Close releases the compiled network handle. Idempotent. Requests created
// from it must be closed by their owners; closing the network first is a
// caller error the engine does not protect against.
func (e *ExecutableNetwork) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	bridgeExecFree(e.h)
	e.h = nil
	return nil
}
