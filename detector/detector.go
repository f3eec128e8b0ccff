// Package detector locates PDF417 symbols in a binarized image by finding
// their start and stop guard patterns.
package detector

import (
	"math"

	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
)

// Guard patterns as run lengths of alternating black/white modules.
var (
	startPattern = []int{8, 1, 1, 1, 1, 1, 1, 3}
	stopPattern  = []int{7, 1, 1, 3, 1, 1, 1, 2, 1}
)

const (
	maxAvgVariance        = 0.42
	maxIndividualVariance = 0.8
	minStopHeightRatio    = 0.5
	maxPixelDrift         = 3
	maxPatternDrift       = 5
	maxSkippedRows        = 25
	rowStep               = 5
	minBarcodeHeight      = 10
)

// PDF417DetectorResult holds the located symbols: the (possibly rotated)
// matrix they were found in and one 8-point slice per symbol. Points 0-3
// are the barcode corners, points 4-7 the codeword area corners, each in
// top-left, bottom-left, top-right, bottom-right order.
type PDF417DetectorResult struct {
	Bits     *bitutil.BitMatrix
	Points   [][]*pdf417go.ResultPoint
	Rotation int
}

// Detect searches the matrix for PDF417 symbols, trying the 0, 180, 270,
// and 90 degree rotations in that order. With multiple or tryHarder set,
// every symbol found in the winning rotation is returned; otherwise at
// most one.
func Detect(matrix *bitutil.BitMatrix, multiple, tryHarder bool) (*PDF417DetectorResult, error) {
	for _, rotation := range []int{0, 180, 270, 90} {
		m := matrix
		if rotation != 0 {
			m = matrix.Rotated(rotation)
		}
		s := &search{
			matrix:    m,
			width:     m.Width(),
			height:    m.Height(),
			tryHarder: tryHarder,
		}
		if points := s.run(multiple); len(points) > 0 {
			return &PDF417DetectorResult{Bits: m, Points: points, Rotation: rotation}, nil
		}
	}
	return &PDF417DetectorResult{Bits: matrix}, nil
}

// search sweeps one matrix orientation for guard patterns.
type search struct {
	matrix    *bitutil.BitMatrix
	width     int
	height    int
	tryHarder bool
	runs      []int
}

// span is the horizontal extent of a pattern match within one row.
type span struct {
	left, right int
}

// edge is a guard pattern tracked from its first to its last row.
type edge struct {
	topRow, bottomRow int
	top, bottom       span
}

func (s *search) run(multiple bool) [][]*pdf417go.ResultPoint {
	var found [][]*pdf417go.ResultPoint
	row, column := 0, 0
	foundInRow := false

	for row < s.height {
		points := s.locateBarcode(row, column)

		if points[0] == nil && points[3] == nil {
			if !foundInRow {
				if !s.tryHarder {
					break
				}
				row += rowStep
				continue
			}
			// Nothing at this column; restart from the left edge below the
			// lowest symbol found so far.
			foundInRow = false
			column = 0
			for _, p := range found {
				if p[1] != nil {
					row = maxInt(row, int(p[1].Y))
				}
				if p[3] != nil {
					row = maxInt(row, int(p[3].Y))
				}
			}
			row += rowStep
			continue
		}

		foundInRow = true
		found = append(found, points)
		if !multiple && !s.tryHarder {
			break
		}
		// Continue past the symbol just found: after its stop pattern when
		// one was seen, otherwise after its start pattern.
		if points[2] != nil {
			column = int(points[2].X)
			row = int(points[2].Y)
		} else {
			column = int(points[4].X)
			row = int(points[4].Y)
		}
	}
	return found
}

// locateBarcode finds one symbol's start and stop patterns beginning at the
// given position and maps them onto the 8-point result layout. A symbol
// missing its stop pattern keeps nil entries at indexes 2, 3, 6, 7.
func (s *search) locateBarcode(row, column int) []*pdf417go.ResultPoint {
	points := make([]*pdf417go.ResultPoint, 8)
	minHeight := minBarcodeHeight

	if start, ok := s.patternEdge(startPattern, row, column, minHeight); ok {
		points[0] = pointAt(start.top.left, start.topRow)
		points[4] = pointAt(start.top.right, start.topRow)
		points[1] = pointAt(start.bottom.left, start.bottomRow)
		points[5] = pointAt(start.bottom.right, start.bottomRow)
		row = start.topRow
		column = start.top.right
		minHeight = maxInt(int(float64(start.bottomRow-start.topRow)*minStopHeightRatio), minBarcodeHeight)
	}

	if stop, ok := s.patternEdge(stopPattern, row, column, minHeight); ok {
		points[6] = pointAt(stop.top.left, stop.topRow)
		points[2] = pointAt(stop.top.right, stop.topRow)
		points[7] = pointAt(stop.bottom.left, stop.bottomRow)
		points[3] = pointAt(stop.bottom.right, stop.bottomRow)
	}
	return points
}

// patternEdge finds where a guard pattern first appears at or below row and
// tracks it downward. Matches shorter than minHeight are rejected; with
// tryHarder the search resumes below the rejected match.
func (s *search) patternEdge(pattern []int, row, column, minHeight int) (edge, bool) {
	for row < s.height {
		topRow, top, found := s.findFirstRow(pattern, row, column)
		if !found {
			return edge{}, false
		}
		bottomRow, bottom := s.trackToLastRow(pattern, topRow, top)
		if bottomRow-topRow >= minHeight {
			return edge{topRow: topRow, bottomRow: bottomRow, top: top, bottom: bottom}, true
		}
		if !s.tryHarder {
			return edge{}, false
		}
		row = bottomRow + 1 + rowStep
	}
	return edge{}, false
}

// findFirstRow scans down in rowStep strides until the pattern matches,
// then walks back up to the first row where it still matches.
func (s *search) findFirstRow(pattern []int, row, column int) (int, span, bool) {
	for ; row < s.height; row += rowStep {
		sp, ok := s.matchRow(pattern, column, row)
		if !ok {
			continue
		}
		for row > 0 {
			above, ok := s.matchRow(pattern, column, row-1)
			if !ok {
				break
			}
			sp = above
			row--
		}
		return row, sp, true
	}
	return 0, span{}, false
}

// trackToLastRow follows the pattern row by row until it disappears for
// more than maxSkippedRows rows. A match only counts as the same pattern
// when its ends have not drifted too far from the previous row's.
func (s *search) trackToLastRow(pattern []int, topRow int, top span) (int, span) {
	prev := top
	skipped := 0
	row := topRow + 1
	for ; row < s.height; row++ {
		sp, ok := s.matchRow(pattern, prev.left, row)
		if ok && abs(prev.left-sp.left) < maxPatternDrift && abs(prev.right-sp.right) < maxPatternDrift {
			prev = sp
			skipped = 0
		} else {
			if skipped > maxSkippedRows {
				break
			}
			skipped++
		}
	}
	return row - skipped - 1, prev
}

// matchRow searches one row for the pattern starting near column. The start
// position shifts left over any black pixels already underway, at most
// maxPixelDrift of them. On a failed candidate the window advances past the
// first bar/space pair and the run counts shift down accordingly.
func (s *search) matchRow(pattern []int, column, row int) (span, bool) {
	if len(s.runs) < len(pattern) {
		s.runs = make([]int, len(pattern))
	}
	runs := s.runs[:len(pattern)]
	for i := range runs {
		runs[i] = 0
	}

	start := column
	for drift := 0; start > 0 && drift < maxPixelDrift && s.matrix.Get(start, row); drift++ {
		start--
	}

	last := len(pattern) - 1
	pos := 0
	expectBlack := true
	x := start
	for ; x < s.width; x++ {
		if s.matrix.Get(x, row) == expectBlack {
			runs[pos]++
			continue
		}
		if pos == last {
			if runVariance(runs, pattern) < maxAvgVariance {
				return span{left: start, right: x}, true
			}
			start += runs[0] + runs[1]
			copy(runs, runs[2:pos+1])
			runs[pos-1] = 0
			runs[pos] = 0
			pos--
		} else {
			pos++
		}
		runs[pos] = 1
		expectBlack = !expectBlack
	}
	if pos == last && runVariance(runs, pattern) < maxAvgVariance {
		return span{left: start, right: x - 1}, true
	}
	return span{}, false
}

// runVariance scores how closely the observed run lengths match the
// pattern's proportions, as total variance per pixel. Any single run more
// than maxIndividualVariance bar widths off scores +Inf, as does a window
// with fewer pixels than pattern modules.
func runVariance(runs, pattern []int) float64 {
	total := 0
	modules := 0
	for i := range runs {
		total += runs[i]
		modules += pattern[i]
	}
	if total < modules {
		return math.Inf(1)
	}

	unit := float64(total) / float64(modules)
	maxIndividual := maxIndividualVariance * unit

	variance := 0.0
	for i := range runs {
		d := float64(runs[i]) - float64(pattern[i])*unit
		if d < 0 {
			d = -d
		}
		if d > maxIndividual {
			return math.Inf(1)
		}
		variance += d
	}
	return variance / float64(total)
}

func pointAt(x, y int) *pdf417go.ResultPoint {
	return &pdf417go.ResultPoint{X: float64(x), Y: float64(y)}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
