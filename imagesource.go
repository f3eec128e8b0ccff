package pdf417go

import "image"

// ImageLuminanceSource is a LuminanceSource implementation that wraps a Go
// image.Image, converting each pixel to greyscale luminance on construction.
type ImageLuminanceSource struct {
	luminances []byte
	width      int
	height     int
}

// NewImageLuminanceSource creates a LuminanceSource from a Go image.Image.
// Pixels are converted to 8-bit luminance as (306*R + 601*G + 117*B + 0x200) >> 10.
// Fully transparent pixels are treated as white.
func NewImageLuminanceSource(img image.Image) *ImageLuminanceSource {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	lum := make([]byte, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			r, g, b, a := c.RGBA()
			if a == 0 {
				lum[y*w+x] = 0xFF
				continue
			}
			r8 := r >> 8
			g8 := g >> 8
			b8 := b >> 8
			lum[y*w+x] = byte((306*r8 + 601*g8 + 117*b8 + 0x200) >> 10)
		}
	}
	return &ImageLuminanceSource{luminances: lum, width: w, height: h}
}

// NewGrayImageLuminanceSource creates a LuminanceSource from a *image.Gray,
// using the pixel data directly without conversion.
func NewGrayImageLuminanceSource(img *image.Gray) *ImageLuminanceSource {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	lum := make([]byte, w*h)

	if img.Stride == w && bounds.Min == (image.Point{}) {
		copy(lum, img.Pix[:w*h])
	} else {
		for y := 0; y < h; y++ {
			src := (bounds.Min.Y+y)*img.Stride + bounds.Min.X
			copy(lum[y*w:(y+1)*w], img.Pix[src:])
		}
	}
	return &ImageLuminanceSource{luminances: lum, width: w, height: h}
}

// Row returns a row of luminance data.
func (s *ImageLuminanceSource) Row(y int, row []byte) []byte {
	if y < 0 || y >= s.height {
		return nil
	}
	if len(row) < s.width {
		row = make([]byte, s.width)
	}
	copy(row, s.luminances[y*s.width:(y+1)*s.width])
	return row
}

// Matrix returns the entire luminance matrix.
func (s *ImageLuminanceSource) Matrix() []byte {
	out := make([]byte, len(s.luminances))
	copy(out, s.luminances)
	return out
}

// Width returns the width of the image.
func (s *ImageLuminanceSource) Width() int {
	return s.width
}

// Height returns the height of the image.
func (s *ImageLuminanceSource) Height() int {
	return s.height
}

// BitMatrixToImage converts a BitMatrix to a grayscale image where black
// modules are black (0) and white modules are white (255).
func BitMatrixToImage(matrix interface {
	Width() int
	Height() int
	Get(x, y int) bool
}) *image.Gray {
	w, h := matrix.Width(), matrix.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			value := byte(0xFF)
			if matrix.Get(x, y) {
				value = 0
			}
			img.Pix[y*img.Stride+x] = value
		}
	}
	return img
}
