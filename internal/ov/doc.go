// Package ov wraps a native OpenVINO-style inference engine behind opaque,
// checked handle types. Callers never see raw native pointers: every
// operation crossing the boundary returns a typed error mapped from the
// engine's status codes.
//
// The model lifecycle is Core -> ReadNetwork -> configure -> LoadNetwork ->
// CreateInferRequest -> SetBlob -> Infer -> Blob. Compiling a Network
// consumes it; a consumed Network rejects further use. Each wrapper owns
// exactly one native handle and releases it at most once; Close and Free are
// idempotent.
//
// Inference is synchronous. A single InferRequest must not be used from two
// goroutines at once; one compiled network may serve many requests, each with
// its own bound blobs.
//
// The native call surface lives in bridge_native.go (build tag "openvino")
// and bridge_stub.go (everything else). The stub is a small in-memory engine
// with the same status-code contract, so the wrapper semantics are fully
// exercised without the native library.
package ov
