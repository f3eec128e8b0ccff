// Package binarizer converts greyscale luminance data into the 1-bit
// matrices the detector works on.
package binarizer

import (
	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
)

const (
	bucketBits  = 5
	bucketCount = 1 << bucketBits
	bucketShift = 8 - bucketBits
)

// GlobalHistogram thresholds the whole image against a single black point
// estimated from a luminance histogram. Fast and accurate on evenly lit
// scans; Hybrid copes better with shadows and gradients.
type GlobalHistogram struct {
	source pdf417go.LuminanceSource
	rowBuf []byte
}

// NewGlobalHistogram creates a GlobalHistogram binarizer over source.
func NewGlobalHistogram(source pdf417go.LuminanceSource) *GlobalHistogram {
	return &GlobalHistogram{source: source}
}

// LuminanceSource returns the underlying source.
func (g *GlobalHistogram) LuminanceSource() pdf417go.LuminanceSource { return g.source }

// Width returns the image width.
func (g *GlobalHistogram) Width() int { return g.source.Width() }

// Height returns the image height.
func (g *GlobalHistogram) Height() int { return g.source.Height() }

func (g *GlobalHistogram) readRow(y int) []byte {
	if len(g.rowBuf) < g.source.Width() {
		g.rowBuf = make([]byte, g.source.Width())
	}
	return g.source.Row(y, g.rowBuf)
}

// BlackRow binarizes a single row. The row's own histogram supplies the
// black point, and a light sharpening filter is applied before comparing.
func (g *GlobalHistogram) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	width := g.source.Width()
	if row == nil || row.Size() < width {
		row = bitutil.NewBitArray(width)
	} else {
		row.Clear()
	}

	lum := g.readRow(y)
	var hist [bucketCount]int
	for x := 0; x < width; x++ {
		hist[lum[x]>>bucketShift]++
	}
	black, ok := splitHistogram(&hist)
	if !ok {
		return nil, pdf417go.ErrNotFound
	}

	if width < 3 {
		for x := 0; x < width; x++ {
			if int(lum[x]) < black {
				row.Set(x)
			}
		}
		return row, nil
	}

	left := int(lum[0])
	center := int(lum[1])
	for x := 1; x < width-1; x++ {
		right := int(lum[x+1])
		if (center*4-left-right)/2 < black {
			row.Set(x)
		}
		left, center = center, right
	}
	return row, nil
}

// BlackMatrix binarizes the whole image. The black point is estimated from
// a sample of four rows spanning the middle of the image.
func (g *GlobalHistogram) BlackMatrix() (*bitutil.BitMatrix, error) {
	width := g.source.Width()
	height := g.source.Height()

	var hist [bucketCount]int
	for i := 1; i < 5; i++ {
		lum := g.readRow(height * i / 5)
		for x := width / 5; x < width*4/5; x++ {
			hist[lum[x]>>bucketShift]++
		}
	}
	black, ok := splitHistogram(&hist)
	if !ok {
		return nil, pdf417go.ErrNotFound
	}

	matrix := bitutil.NewBitMatrixWithSize(width, height)
	lum := g.source.Matrix()
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			if int(lum[offset+x]) < black {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

// splitHistogram picks a threshold between the histogram's two dominant
// peaks. It reports false when the peaks sit too close together to tell
// black from white, which happens on blank or near-blank input.
func splitHistogram(hist *[bucketCount]int) (int, bool) {
	tallest := 0
	for b := 1; b < bucketCount; b++ {
		if hist[b] > hist[tallest] {
			tallest = b
		}
	}
	peakHeight := hist[tallest]

	// The second peak maximizes count weighted by squared distance from
	// the first, so a modest far-away bump beats a tall adjacent one.
	second := 0
	secondScore := 0
	for b := 0; b < bucketCount; b++ {
		d := b - tallest
		if score := hist[b] * d * d; score > secondScore {
			second = b
			secondScore = score
		}
	}

	lo, hi := tallest, second
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo <= bucketCount/16 {
		return 0, false
	}

	valley := hi - 1
	valleyScore := -1
	for b := hi - 1; b > lo; b-- {
		d := b - lo
		score := d * d * (hi - b) * (peakHeight - hist[b])
		if score > valleyScore {
			valley = b
			valleyScore = score
		}
	}
	return valley << bucketShift, true
}
