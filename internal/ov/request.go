package ov

import (
	"fmt"
	"time"

	"github.com/23skdu/arbalest/internal/metrics"
)

// InferRequest holds the blob bindings for one execution unit and triggers
// synchronous inference passes. It may be reused across bind/infer cycles.
// A request is not safe for concurrent use: one request, one goroutine at a
// time, with the caller sequencing SetBlob before Infer and Infer before
// reading that cycle's outputs.
type InferRequest struct {
	h      requestHandle
	closed bool
}

// SetBlob binds a blob to the named tensor slot. Inputs and outputs use the
// same operation, keyed by the names the model exposes.
func (r *InferRequest) SetBlob(name string, b *Blob) error {
	if r.closed {
		return fmt.Errorf("ov: infer request: %w", ErrClosed)
	}
	if b == nil || b.freed {
		return fmt.Errorf("ov: infer request: blob %q: %w", name, ErrClosed)
	}
	return statusErr("set_blob", bridgeSetBlob(r.h, name, b.h))
}

// Infer runs one synchronous forward pass, blocking the calling goroutine
// until the engine completes. Calling it with no bound inputs fails with
// ErrInferNotStarted.
func (r *InferRequest) Infer() error {
	if r.closed {
		return fmt.Errorf("ov: infer request: %w", ErrClosed)
	}
	start := time.Now()
	if err := statusErr("infer", bridgeInfer(r.h)); err != nil {
		return err
	}
	metrics.RecordInfer(time.Since(start))
	return nil
}

// Blob returns the blob bound to the named slot. For outputs this is valid
// after Infer completes; the returned blob is a reference into the request
// and stays valid while the request is open.
func (r *InferRequest) Blob(name string) (*Blob, error) {
	if r.closed {
		return nil, fmt.Errorf("ov: infer request: %w", ErrClosed)
	}
	h, st := bridgeGetBlob(r.h, name)
	if err := statusErr("get_blob", st); err != nil {
		return nil, err
	}
	size, st := bridgeBlobByteSize(h)
	if err := statusErr("blob_byte_size", st); err != nil {
		return nil, err
	}
	return &Blob{h: h, owned: false, size: size}, nil
}

// Close releases the request handle. Idempotent. Blobs the caller bound
// remain the caller's to free.
func (r *InferRequest) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	bridgeRequestFree(r.h)
	r.h = nil
	return nil
}
