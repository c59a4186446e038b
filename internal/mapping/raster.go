package mapping

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/roach88/noisegraph/internal/ir"
)

// Raster is a packed pixel buffer, rows top to bottom.
type Raster struct {
	Width  int
	Height int
	Format Format
	Stride int
	Pix    []byte
}

func newRaster(w, h int, f Format) *Raster {
	stride := w * f.BytesPerPixel()
	return &Raster{Width: w, Height: h, Format: f, Stride: stride, Pix: make([]byte, stride*h)}
}

// Header describes the raster layout for digests and logs.
func (r *Raster) Header() string {
	return fmt.Sprintf("%dx%d %s", r.Width, r.Height, r.Format)
}

// Digest returns the content digest of the packed pixels and header.
func (r *Raster) Digest() string {
	return ir.RasterDigest(r.Header(), r.Pix)
}

// At returns pixel (x, y) unpacked to float channels.
func (r *Raster) At(x, y int) ir.RGBA {
	bpp := r.Format.BytesPerPixel()
	return unpack(r.Format, r.Pix[y*r.Stride+x*bpp:])
}

// Image returns a standard library view of the raster. Gray8, Gray16 and
// RGBA8 share Pix; the other formats are converted.
func (r *Raster) Image() image.Image {
	rect := image.Rect(0, 0, r.Width, r.Height)
	switch r.Format {
	case Gray8:
		return &image.Gray{Pix: r.Pix, Stride: r.Stride, Rect: rect}
	case Gray16:
		return &image.Gray16{Pix: r.Pix, Stride: r.Stride, Rect: rect}
	case RGBA8:
		return &image.NRGBA{Pix: r.Pix, Stride: r.Stride, Rect: rect}
	case RGBA16:
		return &image.NRGBA64{Pix: r.Pix, Stride: r.Stride, Rect: rect}
	case RGB8:
		img := image.NewNRGBA(rect)
		for y := range r.Height {
			for x := range r.Width {
				o := y*r.Stride + x*3
				img.SetNRGBA(x, y, color.NRGBA{R: r.Pix[o], G: r.Pix[o+1], B: r.Pix[o+2], A: 0xff})
			}
		}
		return img
	default:
		img := image.NewNRGBA64(rect)
		for y := range r.Height {
			for x := range r.Width {
				c := r.At(x, y)
				img.SetNRGBA64(x, y, color.NRGBA64{
					R: quant16(c.R), G: quant16(c.G), B: quant16(c.B), A: quant16(c.A),
				})
			}
		}
		return img
	}
}

// Encode writes the raster in the image format named by ext, such as
// ".png" or "tiff".
func (r *Raster) Encode(w io.Writer, ext string) error {
	return EncodeImage(w, r.Image(), ext)
}

// EncodeImage writes img in the format named by ext.
func EncodeImage(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return png.Encode(w, img)
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "bmp":
		return bmp.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported image extension %q", ext)
	}
}

// Save encodes the raster to path, choosing the encoder from the file
// extension. Any failure is an IO_ERROR and no partial file is left for
// encoder errors.
func (r *Raster) Save(path string) error {
	return SaveImage(path, r.Image())
}

// SaveImage encodes img by the extension of path and writes it. Nothing
// is written when encoding fails.
func SaveImage(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, filepath.Ext(path)); err != nil {
		return ir.NewIOError(path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return ir.NewIOError(path, err)
	}
	return nil
}

// Resize returns a Catmull-Rom scaled copy for previews.
func (r *Raster) Resize(w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", w, h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := r.Image()
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst, nil
}
