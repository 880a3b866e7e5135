package ov

import (
	"fmt"

	"github.com/23skdu/arbalest/internal/metrics"
)

// Blob references a region of memory described by a Desc and exchanged with
// the engine. Owned blobs (AllocBlob) hold engine-allocated storage released
// by Free. Adopted blobs (BlobFromBytes) borrow caller memory: the caller
// must keep the backing slice alive for as long as the engine may touch it,
// and Free only drops the wrapper, never the backing memory.
type Blob struct {
	h     blobHandle
	owned bool
	size  int64
	freed bool
}

// AllocBlob asks the engine to allocate storage matching the descriptor.
func AllocBlob(d Desc) (*Blob, error) {
	h, st := bridgeBlobAlloc(d)
	if err := statusErr("blob_alloc", st); err != nil {
		return nil, err
	}
	size := d.ByteCount()
	traceNativeAlloc(size)
	metrics.RecordBlobBytes(size)
	return &Blob{h: h, owned: true, size: size}, nil
}

// BlobFromBytes wraps caller-owned memory for zero-copy handoff to the
// engine. The data length must equal the descriptor's byte count exactly;
// a mismatch fails with ErrParameterMismatch rather than truncating or
// padding. The engine keeps a raw pointer into data, and nothing enforces
// that lifetime across the boundary; prefer AllocBlob when in doubt.
func BlobFromBytes(d Desc, data []byte) (*Blob, error) {
	if int64(len(data)) != d.ByteCount() {
		return nil, fmt.Errorf("ov: adopt blob: data length %d != descriptor byte count %d: %w",
			len(data), d.ByteCount(), ErrParameterMismatch)
	}
	h, st := bridgeBlobAdopt(d, data)
	if err := statusErr("blob_adopt", st); err != nil {
		return nil, err
	}
	metrics.RecordBlobBytes(int64(len(data)))
	return &Blob{h: h, owned: false, size: int64(len(data))}, nil
}

// Bytes exposes the blob's storage as a mutable slice. The length is
// re-queried from the engine on every call; the descriptor used at
// construction is not trusted to stay accurate once the engine has had a
// chance to mutate the blob.
func (b *Blob) Bytes() ([]byte, error) {
	if b.freed {
		return nil, fmt.Errorf("ov: blob: %w", ErrClosed)
	}
	data, st := bridgeBlobBytes(b.h)
	if err := statusErr("blob_buffer", st); err != nil {
		return nil, err
	}
	return data, nil
}

// ByteLen queries the engine for the blob's current byte length.
func (b *Blob) ByteLen() (int64, error) {
	if b.freed {
		return 0, fmt.Errorf("ov: blob: %w", ErrClosed)
	}
	n, st := bridgeBlobByteSize(b.h)
	if err := statusErr("blob_byte_size", st); err != nil {
		return 0, err
	}
	return n, nil
}

// ElementCount queries the engine for the blob's current element count.
func (b *Blob) ElementCount() (int64, error) {
	if b.freed {
		return 0, fmt.Errorf("ov: blob: %w", ErrClosed)
	}
	n, st := bridgeBlobElementCount(b.h)
	if err := statusErr("blob_size", st); err != nil {
		return 0, err
	}
	return n, nil
}

// Free releases the blob's native reference. Safe to call more than once;
// only the first call has any effect. Adopted backing memory stays with the
// caller.
func (b *Blob) Free() {
	if b.freed {
		return
	}
	b.freed = true
	bridgeBlobFree(b.h)
	b.h = nil
	if b.owned {
		traceNativeAlloc(-b.size)
	}
}
