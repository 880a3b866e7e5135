package ov

import (
	"sync/atomic"

	"github.com/23skdu/arbalest/internal/metrics"
)

var nativeAllocatedBytes int64

func traceNativeAlloc(delta int64) {
	newVal := atomic.AddInt64(&nativeAllocatedBytes, delta)
	metrics.RecordNativeMemory(newVal)
}

// NativeAllocatedBytes returns the bytes of engine-allocated blob memory
// currently held by live owned blobs.
func NativeAllocatedBytes() int64 {
	return atomic.LoadInt64(&nativeAllocatedBytes)
}

func recordBridgeError(op string, c StatusCode) {
	metrics.RecordBridgeError(op, int32(c))
}
