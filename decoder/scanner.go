package decoder

import (
	"strconv"

	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/internal"
)

const (
	// codewordSkew is how far a codeword's start or width may deviate, in
	// pixels, before it is rejected as misaligned.
	codewordSkew   = 2
	maxErrors      = 3
	maxECCodewords = 512
	ambiguityTries = 100
)

// scanner walks a detected symbol column by column, turning pixel runs
// into codewords. The plausible codeword width range widens to take in
// every codeword width found.
type scanner struct {
	image    *bitutil.BitMatrix
	minWidth int
	maxWidth int
}

// Decode reads the symbol between the four detected corner points. A nil
// corner point means that side of the symbol was not located.
// minCodewordWidth and maxCodewordWidth seed the plausible codeword size
// range.
func Decode(image *bitutil.BitMatrix,
	topLeft, bottomLeft, topRight, bottomRight *pdf417go.ResultPoint,
	minCodewordWidth, maxCodewordWidth int) (*internal.DecoderResult, error) {

	box, err := newBoundingBox(image, topLeft, bottomLeft, topRight, bottomRight)
	if err != nil {
		return nil, err
	}
	s := &scanner{image: image, minWidth: minCodewordWidth, maxWidth: maxCodewordWidth}

	// The indicator columns may reveal rows above or below the detected
	// corners. When they do, rescan them once with the grown box.
	var left, right *column
	var g *grid
	for pass := 0; ; pass++ {
		if topLeft != nil {
			left = s.scanIndicatorColumn(box, *topLeft, true)
		}
		if topRight != nil {
			right = s.scanIndicatorColumn(box, *topRight, false)
		}
		g, err = mergeIndicators(left, right)
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, pdf417go.ErrNotFound
		}
		if pass == 0 && g.box != nil && (g.box.minY < box.minY || g.box.maxY > box.maxY) {
			box = g.box
			continue
		}
		break
	}

	g.box = box
	last := g.dataColumns() + 1
	if left != nil {
		g.cols[0] = left
	}
	if right != nil {
		g.cols[last] = right
	}

	fromLeft := left != nil
	for n := 1; n <= last; n++ {
		col := n
		if !fromLeft {
			col = last - n
		}
		if g.cols[col] != nil {
			continue
		}
		if col == 0 || col == last {
			g.cols[col] = newIndicatorColumn(box, col == 0)
		} else {
			g.cols[col] = newColumn(box)
		}
		s.scanColumn(g, col, fromLeft)
	}
	return assemble(g)
}

// scanIndicatorColumn collects codewords along one indicator column,
// sweeping down from the start point and then up, each found codeword
// re-anchoring the horizontal start for the next row.
func (s *scanner) scanIndicatorColumn(box *boundingBox, start pdf417go.ResultPoint, left bool) *column {
	c := newIndicatorColumn(box, left)
	for _, step := range []int{1, -1} {
		startColumn := int(start.X)
		for row := int(start.Y); row >= box.minY && row <= box.maxY; row += step {
			cw := s.detectCodeword(0, s.image.Width(), left, startColumn, row)
			if cw == nil {
				continue
			}
			c.setAt(row, cw)
			if left {
				startColumn = cw.startX
			} else {
				startColumn = cw.endX
			}
		}
	}
	return c
}

// scanColumn collects the codewords of one grid column across every
// image row of the bounding box, lowering the minimum and raising the
// maximum width bound to each detected codeword's width as it goes.
func (s *scanner) scanColumn(g *grid, col int, fromLeft bool) {
	box := g.box
	target := g.cols[col]
	previousStart := -1
	for row := box.minY; row <= box.maxY; row++ {
		start := startColumn(g, col, row, fromLeft)
		if start < 0 || start > box.maxX {
			if previousStart == -1 {
				continue
			}
			start = previousStart
		}
		cw := s.detectCodeword(box.minX, box.maxX, fromLeft, start, row)
		if cw == nil {
			continue
		}
		target.setAt(row, cw)
		previousStart = start
		if cw.width() < s.minWidth {
			s.minWidth = cw.width()
		}
		if cw.width() > s.maxWidth {
			s.maxWidth = cw.width()
		}
	}
}

// mergeIndicators derives the symbol's metadata and bounding box from
// the indicator columns. A nil grid with a nil error means the
// indicators could not agree on usable metadata.
func mergeIndicators(left, right *column) (*grid, error) {
	if left == nil && right == nil {
		return nil, nil
	}
	meta := agreedMetadata(left, right)
	if meta == nil {
		return nil, nil
	}
	leftBox, err := indicatorBox(left)
	if err != nil {
		return nil, err
	}
	rightBox, err := indicatorBox(right)
	if err != nil {
		return nil, err
	}
	box, err := mergeBoxes(leftBox, rightBox)
	if err != nil {
		return nil, err
	}
	return newGrid(meta, box), nil
}

// agreedMetadata prefers the left indicator's reading and only rejects
// it when the right indicator disputes every field at once.
func agreedMetadata(left, right *column) *barcodeMetadata {
	var leftMeta *barcodeMetadata
	if left != nil {
		leftMeta = left.metadata()
	}
	if leftMeta == nil {
		if right == nil {
			return nil
		}
		return right.metadata()
	}
	if right == nil {
		return leftMeta
	}
	rightMeta := right.metadata()
	if rightMeta == nil {
		return leftMeta
	}
	if leftMeta.columnCount != rightMeta.columnCount &&
		leftMeta.ecLevel != rightMeta.ecLevel &&
		leftMeta.rowCount() != rightMeta.rowCount() {
		return nil
	}
	return leftMeta
}

// indicatorBox grows an indicator column's bounding box by the rows its
// row heights say were missed at the top and bottom.
func indicatorBox(c *column) (*boundingBox, error) {
	if c == nil {
		return nil, nil
	}
	heights := c.rowHeights()
	if heights == nil {
		return nil, nil
	}
	tallest := maxHeight(heights)

	missingAbove := 0
	for _, h := range heights {
		missingAbove += tallest - h
		if h > 0 {
			break
		}
	}
	for i := 0; missingAbove > 0 && c.words[i] == nil; i++ {
		missingAbove--
	}

	missingBelow := 0
	for i := len(heights) - 1; i >= 0; i-- {
		missingBelow += tallest - heights[i]
		if heights[i] > 0 {
			break
		}
	}
	for i := len(c.words) - 1; missingBelow > 0 && c.words[i] == nil; i-- {
		missingBelow--
	}

	return c.box.withMissingRows(missingAbove, missingBelow, c.left)
}

func maxHeight(heights []int) int {
	tallest := -1
	for _, h := range heights {
		if h > tallest {
			tallest = h
		}
	}
	return tallest
}

// startColumn estimates where a codeword should begin at the given image
// row, consulting the neighboring column first, then nearby rows of the
// current and neighboring columns, then any earlier column scaled by the
// number of columns skipped.
func startColumn(g *grid, col, row int, fromLeft bool) int {
	step := 1
	if !fromLeft {
		step = -1
	}
	var cw *codeword
	if validColumn(g, col-step) {
		cw = g.cols[col-step].at(row)
	}
	if cw != nil {
		if fromLeft {
			return cw.endX
		}
		return cw.startX
	}
	if cw = g.cols[col].nearby(row); cw != nil {
		if fromLeft {
			return cw.startX
		}
		return cw.endX
	}
	if validColumn(g, col-step) {
		cw = g.cols[col-step].nearby(row)
	}
	if cw != nil {
		if fromLeft {
			return cw.endX
		}
		return cw.startX
	}
	skipped := 0
	for validColumn(g, col-step) {
		col -= step
		for _, prior := range g.cols[col].words {
			if prior == nil {
				continue
			}
			if fromLeft {
				return prior.endX + step*skipped*prior.width()
			}
			return prior.startX + step*skipped*prior.width()
		}
		skipped++
	}
	if fromLeft {
		return g.box.minX
	}
	return g.box.maxX
}

func validColumn(g *grid, col int) bool {
	return col >= 0 && col <= g.dataColumns()+1
}

// detectCodeword measures one codeword's runs at the given position and
// decodes them, rejecting widths outside the plausible range.
func (s *scanner) detectCodeword(minColumn, maxColumn int, fromLeft bool, start, row int) *codeword {
	start = s.alignStart(minColumn, maxColumn, fromLeft, start, row)
	runs := s.moduleRuns(minColumn, maxColumn, fromLeft, start, row)
	if runs == nil {
		return nil
	}
	width := sumInts(runs)
	var end int
	if fromLeft {
		end = start + width
	} else {
		for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
			runs[i], runs[j] = runs[j], runs[i]
		}
		end = start
		start = end - width
	}

	if width < s.minWidth-codewordSkew || width > s.maxWidth+codewordSkew {
		return nil
	}
	value := decodeSymbolValue(runs)
	cw := getCodeword(value)
	if cw == -1 {
		return nil
	}
	return newCodeword(start, end, symbolBucket(value), cw)
}

// moduleRuns measures the eight alternating bar/space runs starting at
// the given column, or returns nil when the row ends mid-codeword.
func (s *scanner) moduleRuns(minColumn, maxColumn int, fromLeft bool, start, row int) []int {
	runs := make([]int, barsInModule)
	step := 1
	if !fromLeft {
		step = -1
	}
	x := start
	expect := fromLeft
	i := 0
	for (fromLeft && x < maxColumn || !fromLeft && x >= minColumn) && i < len(runs) {
		if s.image.Get(x, row) == expect {
			runs[i]++
			x += step
		} else {
			i++
			expect = !expect
		}
	}
	atEdge := fromLeft && x == maxColumn || !fromLeft && x == minColumn
	if i == len(runs) || (atEdge && i == len(runs)-1) {
		return runs
	}
	return nil
}

// alignStart nudges the start column onto the leading edge of the first
// bar, backing out of a bar already underway or skipping ahead over
// space, at most codewordSkew pixels either way.
func (s *scanner) alignStart(minColumn, maxColumn int, fromLeft bool, start, row int) int {
	corrected := start
	step := -1
	if !fromLeft {
		step = 1
	}
	for i := 0; i < 2; i++ {
		for (fromLeft && corrected >= minColumn || !fromLeft && corrected < maxColumn) &&
			fromLeft == s.image.Get(corrected, row) {
			if absInt(start-corrected) > codewordSkew {
				return start
			}
			corrected += step
		}
		step = -step
		fromLeft = !fromLeft
	}
	return corrected
}

// assemble votes the scanned codewords into a value per grid cell and
// hands the resulting codeword stream to error correction and parsing.
func assemble(g *grid) (*internal.DecoderResult, error) {
	tally := tallyMatrix(g)
	if err := reconcileCodewordCount(g, tally); err != nil {
		return nil, err
	}
	rows, cols := g.meta.rowCount(), g.dataColumns()
	codewords := make([]int, rows*cols)
	var erasures []int
	var ambiguousAt []int
	var ambiguousValues [][]int
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			values := tally[row][col+1].best()
			index := row*cols + col
			switch len(values) {
			case 0:
				erasures = append(erasures, index)
			case 1:
				codewords[index] = values[0]
			default:
				ambiguousAt = append(ambiguousAt, index)
				ambiguousValues = append(ambiguousValues, values)
			}
		}
	}
	return resolveAmbiguities(g.meta.ecLevel, codewords, erasures, ambiguousAt, ambiguousValues)
}

func tallyMatrix(g *grid) [][]votes {
	tally := make([][]votes, g.meta.rowCount())
	for row := range tally {
		tally[row] = make([]votes, g.dataColumns()+2)
		for col := range tally[row] {
			tally[row][col] = votes{}
		}
	}
	for colIndex, c := range g.alignedColumns() {
		if c == nil {
			continue
		}
		for _, cw := range c.words {
			if cw == nil || cw.rowNumber < 0 || cw.rowNumber >= len(tally) {
				continue
			}
			tally[cw.rowNumber][colIndex].add(cw.value)
		}
	}
	return tally
}

// reconcileCodewordCount checks the symbol's declared codeword count
// against the one implied by its geometry, casting a vote for the
// calculated count when the declared one is absent or disagrees.
func reconcileCodewordCount(g *grid, tally [][]votes) error {
	slot := tally[0][1]
	declared := slot.best()
	calculated := g.dataColumns()*g.meta.rowCount() - ecCodewordCount(g.meta.ecLevel)
	if len(declared) == 0 {
		if calculated < 1 || calculated > maxCodewordsInBarcode {
			return pdf417go.ErrNotFound
		}
		slot.add(calculated)
	} else if declared[0] != calculated && calculated >= 1 && calculated <= maxCodewordsInBarcode {
		slot.add(calculated)
	}
	return nil
}

// resolveAmbiguities tries decoding with every combination of the
// ambiguous cells' candidate values, most confident first, bounded by
// ambiguityTries.
func resolveAmbiguities(ecLevel int, codewords, erasures, ambiguousAt []int, ambiguousValues [][]int) (*internal.DecoderResult, error) {
	chosen := make([]int, len(ambiguousAt))
	for try := 0; try < ambiguityTries; try++ {
		for i, at := range ambiguousAt {
			codewords[at] = ambiguousValues[i][chosen[i]]
		}
		result, err := decodeCodewords(codewords, ecLevel, erasures)
		if err == nil {
			return result, nil
		}
		if err != pdf417go.ErrChecksum {
			return nil, err
		}
		if len(chosen) == 0 {
			return nil, pdf417go.ErrChecksum
		}
		for i := range chosen {
			if chosen[i] < len(ambiguousValues[i])-1 {
				chosen[i]++
				break
			}
			chosen[i] = 0
			if i == len(chosen)-1 {
				return nil, pdf417go.ErrChecksum
			}
		}
	}
	return nil, pdf417go.ErrChecksum
}

func decodeCodewords(codewords []int, ecLevel int, erasures []int) (*internal.DecoderResult, error) {
	if len(codewords) == 0 {
		return nil, pdf417go.ErrFormat
	}
	numEC := ecCodewordCount(ecLevel)
	if len(erasures) > numEC/2+maxErrors || numEC < 0 || numEC > maxECCodewords {
		return nil, pdf417go.ErrChecksum
	}
	corrected, err := correctErrors(codewords, numEC, erasures)
	if err != nil {
		return nil, err
	}
	if err := ensureCodewordCount(codewords, numEC); err != nil {
		return nil, err
	}
	result, err := decodeBitStream(codewords, strconv.Itoa(ecLevel))
	if err != nil {
		return nil, err
	}
	result.ErrorsCorrected = corrected
	result.Erasures = len(erasures)
	return result, nil
}

// ensureCodewordCount validates the declared codeword count in slot 0,
// deriving it from the stream length when the symbol omitted it.
func ensureCodewordCount(codewords []int, numEC int) error {
	if len(codewords) < 4 {
		return pdf417go.ErrFormat
	}
	declared := codewords[0]
	if declared > len(codewords) {
		return pdf417go.ErrFormat
	}
	if declared == 0 {
		if numEC >= len(codewords) {
			return pdf417go.ErrFormat
		}
		codewords[0] = len(codewords) - numEC
	}
	return nil
}

func ecCodewordCount(ecLevel int) int {
	return 2 << uint(ecLevel)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
