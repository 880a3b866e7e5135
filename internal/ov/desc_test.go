package ov

import (
	"errors"
	"testing"
)

func TestNewDesc(t *testing.T) {
	d, err := NewDesc(LayoutNHWC, []int64{1, 481, 640, 3}, PrecisionU8)
	if err != nil {
		t.Fatalf("NewDesc failed: %v", err)
	}
	if d.Rank() != 4 {
		t.Errorf("expected rank 4, got %d", d.Rank())
	}
	if got := d.ElementCount(); got != 1*481*640*3 {
		t.Errorf("expected element count %d, got %d", 1*481*640*3, got)
	}
	if got := d.ByteCount(); got != d.ElementCount() {
		t.Errorf("U8 byte count should equal element count, got %d", got)
	}
}

func TestDescByteCountTracksPrecision(t *testing.T) {
	tests := []struct {
		precision Precision
		width     int64
	}{
		{PrecisionU8, 1},
		{PrecisionI8, 1},
		{PrecisionFP16, 2},
		{PrecisionI16, 2},
		{PrecisionU16, 2},
		{PrecisionFP32, 4},
		{PrecisionI32, 4},
		{PrecisionI64, 8},
	}

	dims := []int64{2, 3, 5}
	elements := int64(2 * 3 * 5)
	for _, tt := range tests {
		t.Run(tt.precision.String(), func(t *testing.T) {
			d, err := NewDesc(LayoutCHW, dims, tt.precision)
			if err != nil {
				t.Fatalf("NewDesc failed: %v", err)
			}
			if d.ElementCount() != elements {
				t.Errorf("expected %d elements, got %d", elements, d.ElementCount())
			}
			if got := d.ByteCount(); got != elements*tt.width {
				t.Errorf("expected %d bytes, got %d", elements*tt.width, got)
			}
		})
	}
}

func TestNewDescRejectsBadInput(t *testing.T) {
	tests := []struct {
		name      string
		layout    Layout
		dims      []int64
		precision Precision
	}{
		{"empty dims", LayoutAny, nil, PrecisionFP32},
		{"rank 9", LayoutAny, []int64{1, 1, 1, 1, 1, 1, 1, 1, 1}, PrecisionFP32},
		{"zero extent", LayoutNCHW, []int64{1, 0, 4, 4}, PrecisionFP32},
		{"negative extent", LayoutNCHW, []int64{1, -3, 4, 4}, PrecisionFP32},
		{"unknown precision", LayoutNCHW, []int64{1, 3, 4, 4}, Precision(99)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDesc(tt.layout, tt.dims, tt.precision); err == nil {
				t.Error("expected an error")
			}
		})
	}

	// Rank 8 is the last valid rank.
	if _, err := NewDesc(LayoutAny, []int64{1, 2, 1, 2, 1, 2, 1, 2}, PrecisionU8); err != nil {
		t.Errorf("rank 8 should be accepted: %v", err)
	}

	var badDim *BadDimensionError
	_, err := NewDesc(LayoutNCHW, []int64{1, -3, 4, 4}, PrecisionFP32)
	if !errors.As(err, &badDim) {
		t.Fatalf("expected BadDimensionError, got %v", err)
	}
	if badDim.Index != 1 || badDim.Extent != -3 {
		t.Errorf("unexpected error detail: %+v", badDim)
	}
}

func TestDescDimsIsolated(t *testing.T) {
	in := []int64{1, 3, 8, 8}
	d, err := NewDesc(LayoutNCHW, in, PrecisionFP32)
	if err != nil {
		t.Fatalf("NewDesc failed: %v", err)
	}

	in[0] = 99
	if d.Dims()[0] != 1 {
		t.Error("descriptor aliased the caller's dims slice")
	}

	out := d.Dims()
	out[1] = 99
	if d.Dims()[1] != 3 {
		t.Error("Dims() exposed internal storage")
	}
}

func TestParseLayoutAndPrecision(t *testing.T) {
	for _, l := range []Layout{LayoutAny, LayoutNCHW, LayoutNHWC, LayoutCHW, LayoutHW, LayoutNC, LayoutC} {
		got, err := ParseLayout(l.String())
		if err != nil {
			t.Errorf("ParseLayout(%q) failed: %v", l.String(), err)
		}
		if got != l {
			t.Errorf("ParseLayout round-trip: %v != %v", got, l)
		}
	}
	if _, err := ParseLayout("bogus"); err == nil {
		t.Error("expected error for unknown layout")
	}

	for _, p := range []Precision{PrecisionFP32, PrecisionFP16, PrecisionI16, PrecisionU8, PrecisionI8, PrecisionU16, PrecisionI32, PrecisionI64} {
		got, err := ParsePrecision(p.String())
		if err != nil {
			t.Errorf("ParsePrecision(%q) failed: %v", p.String(), err)
		}
		if got != p {
			t.Errorf("ParsePrecision round-trip: %v != %v", got, p)
		}
	}
	if _, err := ParsePrecision("FP64"); err == nil {
		t.Error("expected error for unknown precision")
	}
}

func TestWithBatch(t *testing.T) {
	d, _ := NewDesc(LayoutNHWC, []int64{1, 8, 8, 3}, PrecisionU8)
	b := d.withBatch(4)
	if b.Dims()[0] != 4 {
		t.Errorf("expected batch 4, got %d", b.Dims()[0])
	}
	if d.Dims()[0] != 1 {
		t.Error("withBatch mutated the source descriptor")
	}

	// Unbatched layouts keep their leading extent.
	c, _ := NewDesc(LayoutCHW, []int64{3, 8, 8}, PrecisionU8)
	if got := c.withBatch(4).Dims()[0]; got != 3 {
		t.Errorf("CHW layout should ignore batch, got leading extent %d", got)
	}
}
