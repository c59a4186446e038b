package mapping

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/roach88/noisegraph/internal/ir"
)

// Format is the pixel layout of a Raster.
type Format uint8

const (
	Gray8 Format = iota
	Gray16
	RGB8
	RGBA8
	RGBA16
	RGBAF32
)

var formatNames = [...]string{"gray8", "gray16", "rgb8", "rgba8", "rgba16", "rgbaf32"}

var formatSizes = [...]int{1, 2, 3, 4, 8, 16}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// BytesPerPixel returns the packed size of one pixel.
func (f Format) BytesPerPixel() int {
	if int(f) < len(formatSizes) {
		return formatSizes[f]
	}
	return 0
}

// ParseFormat converts a name such as "rgba8" into a Format.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range formatNames {
		if n == name {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pixel format %q: must be one of %v", s, formatNames)
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func quant8(v float64) byte {
	return byte(math.Round(clamp01(v) * 255))
}

func quant16(v float64) uint16 {
	return uint16(math.Round(clamp01(v) * 65535))
}

// luma uses Rec. 601 weights. Gray input passes through unchanged.
func luma(c ir.RGBA) float64 {
	if c.R == c.G && c.G == c.B {
		return c.R
	}
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// pack writes c into dst in format f. Integer formats are big endian to
// match image.Gray16 and image.NRGBA64; RGBAF32 is little endian.
func pack(f Format, c ir.RGBA, dst []byte) {
	switch f {
	case Gray8:
		dst[0] = quant8(luma(c))
	case Gray16:
		binary.BigEndian.PutUint16(dst, quant16(luma(c)))
	case RGB8:
		dst[0], dst[1], dst[2] = quant8(c.R), quant8(c.G), quant8(c.B)
	case RGBA8:
		dst[0], dst[1], dst[2], dst[3] = quant8(c.R), quant8(c.G), quant8(c.B), quant8(c.A)
	case RGBA16:
		binary.BigEndian.PutUint16(dst[0:], quant16(c.R))
		binary.BigEndian.PutUint16(dst[2:], quant16(c.G))
		binary.BigEndian.PutUint16(dst[4:], quant16(c.B))
		binary.BigEndian.PutUint16(dst[6:], quant16(c.A))
	case RGBAF32:
		binary.LittleEndian.PutUint32(dst[0:], math.Float32bits(float32(c.R)))
		binary.LittleEndian.PutUint32(dst[4:], math.Float32bits(float32(c.G)))
		binary.LittleEndian.PutUint32(dst[8:], math.Float32bits(float32(c.B)))
		binary.LittleEndian.PutUint32(dst[12:], math.Float32bits(float32(c.A)))
	}
}

// unpack is the inverse of pack, used to build image.Image views.
func unpack(f Format, src []byte) ir.RGBA {
	switch f {
	case Gray8:
		return ir.Gray(float64(src[0]) / 255)
	case Gray16:
		return ir.Gray(float64(binary.BigEndian.Uint16(src)) / 65535)
	case RGB8:
		return ir.RGBA{R: float64(src[0]) / 255, G: float64(src[1]) / 255, B: float64(src[2]) / 255, A: 1}
	case RGBA8:
		return ir.RGBA{R: float64(src[0]) / 255, G: float64(src[1]) / 255, B: float64(src[2]) / 255, A: float64(src[3]) / 255}
	case RGBA16:
		return ir.RGBA{
			R: float64(binary.BigEndian.Uint16(src[0:])) / 65535,
			G: float64(binary.BigEndian.Uint16(src[2:])) / 65535,
			B: float64(binary.BigEndian.Uint16(src[4:])) / 65535,
			A: float64(binary.BigEndian.Uint16(src[6:])) / 65535,
		}
	case RGBAF32:
		ch := func(o int) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(src[o:])))
		}
		return ir.RGBA{R: ch(0), G: ch(4), B: ch(8), A: ch(12)}
	}
	return ir.RGBA{}
}
