package binarizer

import (
	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
)

const (
	blockPower      = 3
	blockSide       = 1 << blockPower
	minHybridSize   = blockSide * 5
	minDynamicRange = 24
)

// Hybrid thresholds 8x8 pixel blocks against black points averaged over
// each block's 5x5 neighborhood, so gradients and shadows shift the
// threshold locally instead of washing out half the image. Images too
// small to grid fall back to the global histogram.
type Hybrid struct {
	global *GlobalHistogram
	cached *bitutil.BitMatrix
}

// NewHybrid creates a Hybrid binarizer over source.
func NewHybrid(source pdf417go.LuminanceSource) *Hybrid {
	return &Hybrid{global: NewGlobalHistogram(source)}
}

// LuminanceSource returns the underlying source.
func (h *Hybrid) LuminanceSource() pdf417go.LuminanceSource { return h.global.LuminanceSource() }

// Width returns the image width.
func (h *Hybrid) Width() int { return h.global.Width() }

// Height returns the image height.
func (h *Hybrid) Height() int { return h.global.Height() }

// BlackRow binarizes a single row using the global histogram; local
// thresholding needs 2D context a lone row cannot supply.
func (h *Hybrid) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	return h.global.BlackRow(y, row)
}

// BlackMatrix binarizes the whole image, computing the matrix once and
// serving it from cache afterwards.
func (h *Hybrid) BlackMatrix() (*bitutil.BitMatrix, error) {
	if h.cached != nil {
		return h.cached, nil
	}

	source := h.LuminanceSource()
	if source.Width() < minHybridSize || source.Height() < minHybridSize {
		m, err := h.global.BlackMatrix()
		if err != nil {
			return nil, err
		}
		h.cached = m
		return m, nil
	}

	g := newBlockGrid(source)
	h.cached = g.threshold()
	return h.cached, nil
}

// blockGrid carries the per-block state for local thresholding. subW and
// subH count blocks per axis; the last block is shifted left/up rather
// than clipped when the image size is not a multiple of blockSide.
type blockGrid struct {
	lum    []byte
	width  int
	height int
	subW   int
	subH   int
	points [][]int
}

func newBlockGrid(source pdf417go.LuminanceSource) *blockGrid {
	g := &blockGrid{
		lum:    source.Matrix(),
		width:  source.Width(),
		height: source.Height(),
	}
	g.subW = g.width >> blockPower
	if g.width&(blockSide-1) != 0 {
		g.subW++
	}
	g.subH = g.height >> blockPower
	if g.height&(blockSide-1) != 0 {
		g.subH++
	}
	g.computeBlackPoints()
	return g
}

func (g *blockGrid) blockOrigin(bx, by int) (int, int) {
	x := bx << blockPower
	if limit := g.width - blockSide; x > limit {
		x = limit
	}
	y := by << blockPower
	if limit := g.height - blockSide; y > limit {
		y = limit
	}
	return x, y
}

// computeBlackPoints estimates one black point per block from the block's
// average luminance. Flat blocks borrow from neighbors above and to the
// left so a block entirely inside a bar still thresholds as black.
func (g *blockGrid) computeBlackPoints() {
	g.points = make([][]int, g.subH)
	for by := range g.points {
		g.points[by] = make([]int, g.subW)
		for bx := range g.points[by] {
			g.points[by][bx] = g.blockBlackPoint(bx, by)
		}
	}
}

func (g *blockGrid) blockBlackPoint(bx, by int) int {
	xoff, yoff := g.blockOrigin(bx, by)
	sum := 0
	darkest, brightest := 0xFF, 0

	offset := yoff*g.width + xoff
	yy := 0
	for ; yy < blockSide; yy, offset = yy+1, offset+g.width {
		for xx := 0; xx < blockSide; xx++ {
			p := int(g.lum[offset+xx])
			sum += p
			if p < darkest {
				darkest = p
			}
			if p > brightest {
				brightest = p
			}
		}
		if brightest-darkest > minDynamicRange {
			break
		}
	}
	if yy < blockSide {
		// Contrast confirmed; the remaining rows only need the sum.
		for yy, offset = yy+1, offset+g.width; yy < blockSide; yy, offset = yy+1, offset+g.width {
			for xx := 0; xx < blockSide; xx++ {
				sum += int(g.lum[offset+xx])
			}
		}
	}

	average := sum >> (blockPower * 2)
	if brightest-darkest <= minDynamicRange {
		average = darkest / 2
		if by > 0 && bx > 0 {
			neighbors := (g.points[by-1][bx] + 2*g.points[by][bx-1] + g.points[by-1][bx-1]) / 4
			if darkest < neighbors {
				average = neighbors
			}
		}
	}
	return average
}

func (g *blockGrid) neighborhoodAverage(bx, by int) int {
	cx := clampBlock(bx, g.subW-3)
	cy := clampBlock(by, g.subH-3)
	sum := 0
	for dy := -2; dy <= 2; dy++ {
		row := g.points[cy+dy]
		sum += row[cx-2] + row[cx-1] + row[cx] + row[cx+1] + row[cx+2]
	}
	return sum / 25
}

func clampBlock(v, max int) int {
	if v < 2 {
		return 2
	}
	if v > max {
		return max
	}
	return v
}

func (g *blockGrid) threshold() *bitutil.BitMatrix {
	matrix := bitutil.NewBitMatrixWithSize(g.width, g.height)
	for by := 0; by < g.subH; by++ {
		for bx := 0; bx < g.subW; bx++ {
			cut := g.neighborhoodAverage(bx, by)
			xoff, yoff := g.blockOrigin(bx, by)
			offset := yoff*g.width + xoff
			for yy := 0; yy < blockSide; yy, offset = yy+1, offset+g.width {
				for xx := 0; xx < blockSide; xx++ {
					if int(g.lum[offset+xx]) <= cut {
						matrix.Set(xoff+xx, yoff+yy)
					}
				}
			}
		}
	}
	return matrix
}
