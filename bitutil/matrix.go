// Package bitutil provides the packed bit containers shared by the
// binarizer, detector, decoder, and encoder.
package bitutil

import (
	"math/bits"
	"strings"
)

// BitMatrix is a width x height grid of bits packed into 64-bit words.
// Coordinates are (x, y) where x names the column and y the row, with
// (0, 0) at the top-left corner. Bits are stored row-major with no
// per-row padding.
type BitMatrix struct {
	width  int
	height int
	words  []uint64
}

// NewBitMatrixWithSize returns an all-zero matrix of the given dimensions.
func NewBitMatrixWithSize(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitutil: matrix dimensions must be positive")
	}
	n := width * height
	return &BitMatrix{
		width:  width,
		height: height,
		words:  make([]uint64, (n+63)>>6),
	}
}

// NewBitMatrix returns an all-zero square matrix.
func NewBitMatrix(dimension int) *BitMatrix {
	return NewBitMatrixWithSize(dimension, dimension)
}

func (m *BitMatrix) locate(x, y int) (word int, mask uint64) {
	i := y*m.width + x
	return i >> 6, 1 << uint(i&63)
}

// Get reports whether the bit at (x, y) is set.
func (m *BitMatrix) Get(x, y int) bool {
	w, mask := m.locate(x, y)
	return m.words[w]&mask != 0
}

// Set turns on the bit at (x, y).
func (m *BitMatrix) Set(x, y int) {
	w, mask := m.locate(x, y)
	m.words[w] |= mask
}

// Width returns the number of columns.
func (m *BitMatrix) Width() int { return m.width }

// Height returns the number of rows.
func (m *BitMatrix) Height() int { return m.height }

// Clone returns an independent copy of the matrix.
func (m *BitMatrix) Clone() *BitMatrix {
	words := make([]uint64, len(m.words))
	copy(words, m.words)
	return &BitMatrix{width: m.width, height: m.height, words: words}
}

// Rotated returns a copy of the matrix rotated counterclockwise by the
// given number of degrees, which must be a multiple of 90.
func (m *BitMatrix) Rotated(degrees int) *BitMatrix {
	switch ((degrees % 360) + 360) % 360 {
	case 0:
		return m.Clone()
	case 90:
		// (x, y) -> (y, width-1-x)
		out := NewBitMatrixWithSize(m.height, m.width)
		m.eachSet(func(x, y int) { out.Set(y, m.width-1-x) })
		return out
	case 180:
		out := NewBitMatrixWithSize(m.width, m.height)
		m.eachSet(func(x, y int) { out.Set(m.width-1-x, m.height-1-y) })
		return out
	case 270:
		// (x, y) -> (height-1-y, x)
		out := NewBitMatrixWithSize(m.height, m.width)
		m.eachSet(func(x, y int) { out.Set(m.height-1-y, x) })
		return out
	}
	panic("bitutil: rotation must be a multiple of 90 degrees")
}

func (m *BitMatrix) eachSet(visit func(x, y int)) {
	for w, word := range m.words {
		for word != 0 {
			i := w<<6 + bits.TrailingZeros64(word)
			visit(i%m.width, i/m.width)
			word &= word - 1
		}
	}
}

// String renders the matrix with 'X' for set bits and '.' for unset bits,
// one row per line. Intended for tests and debugging.
func (m *BitMatrix) String() string {
	var sb strings.Builder
	sb.Grow(m.height * (m.width + 1))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Get(x, y) {
				sb.WriteByte('X')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
