package decoder

import (
	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
)

// boundingBox is the quadrilateral around a symbol or one of its columns.
// The min/max fields cache the axis-aligned hull of the four corners.
type boundingBox struct {
	image       *bitutil.BitMatrix
	topLeft     pdf417go.ResultPoint
	bottomLeft  pdf417go.ResultPoint
	topRight    pdf417go.ResultPoint
	bottomRight pdf417go.ResultPoint
	minX, maxX  int
	minY, maxY  int
}

// newBoundingBox builds a box from whichever corner pairs were detected.
// A missing side is extended to the image edge at the other side's heights;
// with both sides missing there is nothing to build.
func newBoundingBox(image *bitutil.BitMatrix, topLeft, bottomLeft, topRight, bottomRight *pdf417go.ResultPoint) (*boundingBox, error) {
	noLeft := topLeft == nil || bottomLeft == nil
	noRight := topRight == nil || bottomRight == nil
	switch {
	case noLeft && noRight:
		return nil, pdf417go.ErrNotFound
	case noLeft:
		topLeft = &pdf417go.ResultPoint{X: 0, Y: topRight.Y}
		bottomLeft = &pdf417go.ResultPoint{X: 0, Y: bottomRight.Y}
	case noRight:
		edge := float64(image.Width() - 1)
		topRight = &pdf417go.ResultPoint{X: edge, Y: topLeft.Y}
		bottomRight = &pdf417go.ResultPoint{X: edge, Y: bottomLeft.Y}
	}

	b := &boundingBox{
		image:       image,
		topLeft:     *topLeft,
		bottomLeft:  *bottomLeft,
		topRight:    *topRight,
		bottomRight: *bottomRight,
	}
	b.minX = int(minFloat(b.topLeft.X, b.bottomLeft.X))
	b.maxX = int(maxFloat(b.topRight.X, b.bottomRight.X))
	b.minY = int(minFloat(b.topLeft.Y, b.topRight.Y))
	b.maxY = int(maxFloat(b.bottomLeft.Y, b.bottomRight.Y))
	return b, nil
}

func (b *boundingBox) clone() *boundingBox {
	c := *b
	return &c
}

// mergeBoxes combines the left box's left edge with the right box's right
// edge. Either side may be nil, in which case the other is used as is.
func mergeBoxes(left, right *boundingBox) (*boundingBox, error) {
	if left == nil {
		return right, nil
	}
	if right == nil {
		return left, nil
	}
	return newBoundingBox(left.image, &left.topLeft, &left.bottomLeft, &right.topRight, &right.bottomRight)
}

// withMissingRows grows one side of the box to cover rows the indicator
// column says exist above and below what was detected, clamped to the image.
func (b *boundingBox) withMissingRows(above, below int, left bool) (*boundingBox, error) {
	topLeft, bottomLeft := b.topLeft, b.bottomLeft
	topRight, bottomRight := b.topRight, b.bottomRight

	if above > 0 {
		top := b.topLeft
		if !left {
			top = b.topRight
		}
		y := int(top.Y) - above
		if y < 0 {
			y = 0
		}
		moved := pdf417go.ResultPoint{X: top.X, Y: float64(y)}
		if left {
			topLeft = moved
		} else {
			topRight = moved
		}
	}

	if below > 0 {
		bottom := b.bottomLeft
		if !left {
			bottom = b.bottomRight
		}
		y := int(bottom.Y) + below
		if y >= b.image.Height() {
			y = b.image.Height() - 1
		}
		moved := pdf417go.ResultPoint{X: bottom.X, Y: float64(y)}
		if left {
			bottomLeft = moved
		} else {
			bottomRight = moved
		}
	}

	return newBoundingBox(b.image, &topLeft, &bottomLeft, &topRight, &bottomRight)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
