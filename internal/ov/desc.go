package ov

import (
	"fmt"
	"strings"
)

// MaxRank is the largest tensor rank the native descriptor struct can carry.
const MaxRank = 8

// Layout tags the channel order of a tensor. Values match the native
// layout_e enum.
type Layout int32

const (
	LayoutAny  Layout = 0
	LayoutNCHW Layout = 1
	LayoutNHWC Layout = 2
	LayoutCHW  Layout = 128
	LayoutHW   Layout = 192
	LayoutNC   Layout = 193
	LayoutC    Layout = 96
)

func (l Layout) String() string {
	switch l {
	case LayoutAny:
		return "ANY"
	case LayoutNCHW:
		return "NCHW"
	case LayoutNHWC:
		return "NHWC"
	case LayoutCHW:
		return "CHW"
	case LayoutHW:
		return "HW"
	case LayoutNC:
		return "NC"
	case LayoutC:
		return "C"
	}
	return fmt.Sprintf("layout(%d)", int32(l))
}

// ParseLayout maps a layout name ("NHWC", "nchw", ...) to its tag.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToUpper(s) {
	case "ANY":
		return LayoutAny, nil
	case "NCHW":
		return LayoutNCHW, nil
	case "NHWC":
		return LayoutNHWC, nil
	case "CHW":
		return LayoutCHW, nil
	case "HW":
		return LayoutHW, nil
	case "NC":
		return LayoutNC, nil
	case "C":
		return LayoutC, nil
	}
	return LayoutAny, fmt.Errorf("unknown layout %q", s)
}

// batched reports whether the layout carries a batch dimension in position 0.
func (l Layout) batched() bool {
	switch l {
	case LayoutNCHW, LayoutNHWC, LayoutNC:
		return true
	}
	return false
}

// Precision tags the element type of a tensor. Values match the native
// precision_e enum.
type Precision int32

const (
	PrecisionFP32 Precision = 10
	PrecisionFP16 Precision = 11
	PrecisionI16  Precision = 30
	PrecisionU8   Precision = 40
	PrecisionI8   Precision = 50
	PrecisionU16  Precision = 60
	PrecisionI32  Precision = 70
	PrecisionI64  Precision = 72
)

// Width returns the element size in bytes, or 0 for an unknown tag.
func (p Precision) Width() int64 {
	switch p {
	case PrecisionU8, PrecisionI8:
		return 1
	case PrecisionFP16, PrecisionI16, PrecisionU16:
		return 2
	case PrecisionFP32, PrecisionI32:
		return 4
	case PrecisionI64:
		return 8
	}
	return 0
}

func (p Precision) String() string {
	switch p {
	case PrecisionFP32:
		return "FP32"
	case PrecisionFP16:
		return "FP16"
	case PrecisionI16:
		return "I16"
	case PrecisionU8:
		return "U8"
	case PrecisionI8:
		return "I8"
	case PrecisionU16:
		return "U16"
	case PrecisionI32:
		return "I32"
	case PrecisionI64:
		return "I64"
	}
	return fmt.Sprintf("precision(%d)", int32(p))
}

// ParsePrecision maps a precision name ("U8", "fp32", ...) to its tag.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToUpper(s) {
	case "FP32":
		return PrecisionFP32, nil
	case "FP16":
		return PrecisionFP16, nil
	case "I16":
		return PrecisionI16, nil
	case "U8":
		return PrecisionU8, nil
	case "I8":
		return PrecisionI8, nil
	case "U16":
		return PrecisionU16, nil
	case "I32":
		return PrecisionI32, nil
	case "I64":
		return PrecisionI64, nil
	}
	return 0, fmt.Errorf("unknown precision %q", s)
}

// ResizeAlgorithm selects the engine's input resize behavior. Values match
// the native resize_alg_e enum.
type ResizeAlgorithm int32

const (
	NoResize       ResizeAlgorithm = 0
	ResizeBilinear ResizeAlgorithm = 1
	ResizeArea     ResizeAlgorithm = 2
)

// Desc describes the shape, layout and element precision of a tensor. It is
// a pure value: no native resource is attached.
//
// Dimension order always matches the declared layout tag: an NHWC descriptor
// carries dims as [batch, height, width, channels], an NCHW descriptor as
// [batch, channels, height, width]. Element and byte counts are
// layout-agnostic products of the dims.
type Desc struct {
	layout    Layout
	dims      []int64
	precision Precision
}

// BadDimensionError reports a non-positive extent in a descriptor.
type BadDimensionError struct {
	Index  int
	Extent int64
}

func (e *BadDimensionError) Error() string {
	return fmt.Sprintf("ov: dimension %d has invalid extent %d", e.Index, e.Extent)
}

// NewDesc builds a descriptor from a layout tag, dimension extents (outermost
// first, matching the layout) and a precision tag. The dims slice is copied.
func NewDesc(layout Layout, dims []int64, precision Precision) (Desc, error) {
	if len(dims) == 0 {
		return Desc{}, fmt.Errorf("ov: descriptor needs at least one dimension")
	}
	if len(dims) > MaxRank {
		return Desc{}, fmt.Errorf("ov: rank %d exceeds maximum %d", len(dims), MaxRank)
	}
	for i, d := range dims {
		if d <= 0 {
			return Desc{}, &BadDimensionError{Index: i, Extent: d}
		}
	}
	if precision.Width() == 0 {
		return Desc{}, fmt.Errorf("ov: unknown precision %v", precision)
	}
	out := make([]int64, len(dims))
	copy(out, dims)
	return Desc{layout: layout, dims: out, precision: precision}, nil
}

func (d Desc) Layout() Layout       { return d.layout }
func (d Desc) Precision() Precision { return d.precision }
func (d Desc) Rank() int            { return len(d.dims) }

// Dims returns a copy of the dimension extents.
func (d Desc) Dims() []int64 {
	out := make([]int64, len(d.dims))
	copy(out, d.dims)
	return out
}

// ElementCount is the product of the dimension extents.
func (d Desc) ElementCount() int64 {
	if len(d.dims) == 0 {
		return 0
	}
	n := int64(1)
	for _, e := range d.dims {
		n *= e
	}
	return n
}

// ByteCount is ElementCount scaled by the precision width.
func (d Desc) ByteCount() int64 {
	return d.ElementCount() * d.precision.Width()
}

// withBatch returns a copy with dimension 0 replaced, for batched layouts.
func (d Desc) withBatch(n int64) Desc {
	out := Desc{layout: d.layout, precision: d.precision, dims: d.Dims()}
	if len(out.dims) > 0 && d.layout.batched() {
		out.dims[0] = n
	}
	return out
}

func (d Desc) String() string {
	return fmt.Sprintf("%v %v %v", d.layout, d.dims, d.precision)
}
