package metrics

import (
	"testing"
	"time"
)

func TestRecordInfer(t *testing.T) {
	before := InferCount()
	RecordInfer(5 * time.Millisecond)
	RecordInfer(7 * time.Millisecond)
	if got := InferCount() - before; got != 2 {
		t.Errorf("expected infer count to grow by 2, got %d", got)
	}
}

func TestRecordRequestCreated(t *testing.T) {
	before := RequestCount()
	RecordRequestCreated()
	if got := RequestCount() - before; got != 1 {
		t.Errorf("expected request count to grow by 1, got %d", got)
	}
}

func TestRecordBridgeError(t *testing.T) {
	// Label handling must not panic for arbitrary codes.
	RecordBridgeError("infer", -1)
	RecordBridgeError("set_blob", -4)
	RecordBridgeError("unknown_op", 42)
}

func TestRecordNativeMemory(t *testing.T) {
	RecordNativeMemory(1 << 20)
	RecordNativeMemory(0)
}
