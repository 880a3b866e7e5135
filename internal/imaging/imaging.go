// Package imaging converts image files into raw tensor bytes matching a
// network input descriptor.
package imaging

import (
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"

	"github.com/nfnt/resize"

	"github.com/23skdu/arbalest/internal/ov"
)

// PrepareFile reads an image file and lays it out as the descriptor's raw
// tensor bytes.
func PrepareFile(path string, d ov.Desc) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imaging: open %s: %w", path, err)
	}
	defer f.Close()
	return Prepare(f, d)
}

// Prepare decodes an image, resizes it to the descriptor's spatial extent and
// writes the pixels in the descriptor's layout and precision. Supported
// layouts are NHWC, NCHW and CHW with 1 or 3 channels; precisions are U8
// (raw bytes) and FP32 (values scaled to [0,1]).
func Prepare(r io.Reader, d ov.Desc) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	h, w, c, err := spatial(d)
	if err != nil {
		return nil, err
	}
	if c != 1 && c != 3 {
		return nil, fmt.Errorf("imaging: unsupported channel count %d", c)
	}

	switch d.Precision() {
	case ov.PrecisionU8, ov.PrecisionFP32:
	default:
		return nil, fmt.Errorf("imaging: unsupported precision %v", d.Precision())
	}

	img = resize.Resize(uint(w), uint(h), img, resize.Lanczos3)

	out := make([]byte, d.ByteCount())
	bounds := img.Bounds()
	for y := int64(0); y < h; y++ {
		for x := int64(0); x < w; x++ {
			r16, g16, b16, _ := img.At(bounds.Min.X+int(x), bounds.Min.Y+int(y)).RGBA()
			px := [3]uint8{uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8)}
			if c == 1 {
				// ITU-R BT.601 luma.
				px[0] = uint8((299*uint32(px[0]) + 587*uint32(px[1]) + 114*uint32(px[2])) / 1000)
			}
			for ch := int64(0); ch < c; ch++ {
				writeValue(out, d, elementIndex(d.Layout(), h, w, c, y, x, ch), px[ch])
			}
		}
	}
	return out, nil
}

// spatial extracts height, width and channel extents from the descriptor.
// The batch extent, when present, must be 1: one image fills one tensor.
func spatial(d ov.Desc) (h, w, c int64, err error) {
	dims := d.Dims()
	switch d.Layout() {
	case ov.LayoutNHWC:
		if dims[0] != 1 {
			return 0, 0, 0, fmt.Errorf("imaging: batch extent %d, want 1", dims[0])
		}
		return dims[1], dims[2], dims[3], nil
	case ov.LayoutNCHW:
		if dims[0] != 1 {
			return 0, 0, 0, fmt.Errorf("imaging: batch extent %d, want 1", dims[0])
		}
		return dims[2], dims[3], dims[1], nil
	case ov.LayoutCHW:
		return dims[1], dims[2], dims[0], nil
	}
	return 0, 0, 0, fmt.Errorf("imaging: unsupported layout %v", d.Layout())
}

// elementIndex maps a pixel coordinate to its flat element position for the
// layout. Batch is always element 0.
func elementIndex(l ov.Layout, h, w, c, y, x, ch int64) int64 {
	if l == ov.LayoutNHWC {
		return (y*w+x)*c + ch
	}
	// NCHW and CHW share channel-major ordering.
	return ch*h*w + y*w + x
}

func writeValue(out []byte, d ov.Desc, idx int64, v uint8) {
	if d.Precision() == ov.PrecisionU8 {
		out[idx] = v
		return
	}
	bits := math.Float32bits(float32(v) / 255.0)
	binary.LittleEndian.PutUint32(out[idx*4:], bits)
}
