package decoder

import (
	"fmt"
	"strings"
)

const nearbyWindow = 5

// column holds the codewords detected in one barcode column, indexed by
// image row relative to the column's bounding box. Row indicator columns
// carry the extra machinery for recovering the symbol geometry.
type column struct {
	box       *boundingBox
	words     []*codeword
	indicator bool
	left      bool
}

func newColumn(box *boundingBox) *column {
	return &column{
		box:   box.clone(),
		words: make([]*codeword, box.maxY-box.minY+1),
	}
}

func newIndicatorColumn(box *boundingBox, left bool) *column {
	c := newColumn(box)
	c.indicator = true
	c.left = left
	return c
}

func (c *column) indexFor(imageRow int) int {
	return imageRow - c.box.minY
}

func (c *column) at(imageRow int) *codeword {
	return c.words[c.indexFor(imageRow)]
}

func (c *column) setAt(imageRow int, cw *codeword) {
	c.words[c.indexFor(imageRow)] = cw
}

// nearby returns the codeword at imageRow, or failing that the closest one
// within the search window, preferring rows above on ties.
func (c *column) nearby(imageRow int) *codeword {
	if cw := c.at(imageRow); cw != nil {
		return cw
	}
	index := c.indexFor(imageRow)
	for i := 1; i < nearbyWindow; i++ {
		if j := index - i; j >= 0 && c.words[j] != nil {
			return c.words[j]
		}
		if j := index + i; j < len(c.words) && c.words[j] != nil {
			return c.words[j]
		}
	}
	return nil
}

func (c *column) markIndicatorRows() {
	for _, cw := range c.words {
		if cw != nil {
			cw.markAsIndicator()
		}
	}
}

// indicatorSpan returns the column's first and last codeword indexes, taken
// from the detected corner heights on this column's side.
func (c *column) indicatorSpan() (int, int) {
	top, bottom := c.box.topLeft.Y, c.box.bottomLeft.Y
	if !c.left {
		top, bottom = c.box.topRight.Y, c.box.bottomRight.Y
	}
	return c.indexFor(int(top)), c.indexFor(int(bottom))
}

// adjustCompleteRows walks the indicator column top to bottom and drops
// codewords whose row numbers jump implausibly. A jump is plausible when no
// codeword sits close enough above to contradict it, where "close enough"
// scales with the tallest row seen so far.
func (c *column) adjustCompleteRows(meta *barcodeMetadata) {
	c.markIndicatorRows()
	c.pruneMismatched(meta)

	first, last := c.indicatorSpan()
	barcodeRow := -1
	maxHeight := 1
	height := 0
	for i := first; i < last; i++ {
		cw := c.words[i]
		if cw == nil {
			continue
		}
		delta := cw.rowNumber - barcodeRow
		switch {
		case delta == 0:
			height++
		case delta == 1:
			if height > maxHeight {
				maxHeight = height
			}
			height = 1
			barcodeRow = cw.rowNumber
		case delta < 0, cw.rowNumber >= meta.rowCount(), delta > i:
			c.words[i] = nil
		default:
			checked := delta
			if maxHeight > 2 {
				checked = (maxHeight - 2) * delta
			}
			foundClose := checked >= i
			for j := 1; j <= checked && !foundClose; j++ {
				foundClose = c.words[i-j] != nil
			}
			if foundClose {
				c.words[i] = nil
			} else {
				barcodeRow = cw.rowNumber
				height = 1
			}
		}
	}
}

// adjustIncompleteRows is the lenient variant rowHeights runs before
// counting: out-of-range rows are dropped but jumps are accepted.
func (c *column) adjustIncompleteRows(meta *barcodeMetadata) {
	first, last := c.indicatorSpan()
	barcodeRow := -1
	maxHeight := 1
	height := 0
	for i := first; i < last; i++ {
		cw := c.words[i]
		if cw == nil {
			continue
		}
		cw.markAsIndicator()
		delta := cw.rowNumber - barcodeRow
		switch {
		case delta == 0:
			height++
		case delta == 1:
			if height > maxHeight {
				maxHeight = height
			}
			height = 1
			barcodeRow = cw.rowNumber
		case cw.rowNumber >= meta.rowCount():
			c.words[i] = nil
		default:
			barcodeRow = cw.rowNumber
			height = 1
		}
	}
}

// rowHeights counts how many image rows back each barcode row, or returns
// nil when the column cannot supply usable metadata.
func (c *column) rowHeights() []int {
	meta := c.metadata()
	if meta == nil {
		return nil
	}
	c.adjustIncompleteRows(meta)
	heights := make([]int, meta.rowCount())
	for _, cw := range c.words {
		if cw == nil {
			continue
		}
		if cw.rowNumber < len(heights) {
			heights[cw.rowNumber]++
		}
	}
	return heights
}

// metadata recovers the symbol geometry by majority vote over the indicator
// codewords. Left and right indicators carry the three metadata kinds at
// row offsets two apart.
func (c *column) metadata() *barcodeMetadata {
	columnCounts := votes{}
	upperCounts := votes{}
	lowerCounts := votes{}
	ecLevels := votes{}
	for _, cw := range c.words {
		if cw == nil {
			continue
		}
		cw.markAsIndicator()
		value := cw.value % 30
		row := cw.rowNumber
		if !c.left {
			row += 2
		}
		switch row % 3 {
		case 0:
			upperCounts.add(value*3 + 1)
		case 1:
			ecLevels.add(value / 3)
			lowerCounts.add(value % 3)
		case 2:
			columnCounts.add(value + 1)
		}
	}

	columns, uppers, lowers, levels := columnCounts.best(), upperCounts.best(), lowerCounts.best(), ecLevels.best()
	if len(columns) == 0 || len(uppers) == 0 || len(lowers) == 0 || len(levels) == 0 {
		return nil
	}
	meta := &barcodeMetadata{
		columnCount: columns[0],
		ecLevel:     levels[0],
		rowsUpper:   uppers[0],
		rowsLower:   lowers[0],
	}
	if meta.columnCount < 1 || meta.rowCount() < minRowsInBarcode || meta.rowCount() > maxRowsInBarcode {
		return nil
	}
	c.pruneMismatched(meta)
	return meta
}

// pruneMismatched drops indicator codewords that disagree with the agreed
// metadata or claim a row past the end of the barcode.
func (c *column) pruneMismatched(meta *barcodeMetadata) {
	for i, cw := range c.words {
		if cw == nil {
			continue
		}
		if cw.rowNumber > meta.rowCount() {
			c.words[i] = nil
			continue
		}
		value := cw.value % 30
		row := cw.rowNumber
		if !c.left {
			row += 2
		}
		switch row % 3 {
		case 0:
			if value*3+1 != meta.rowsUpper {
				c.words[i] = nil
			}
		case 1:
			if value/3 != meta.ecLevel || value%3 != meta.rowsLower {
				c.words[i] = nil
			}
		case 2:
			if value+1 != meta.columnCount {
				c.words[i] = nil
			}
		}
	}
}

func (c *column) String() string {
	var b strings.Builder
	if c.indicator {
		fmt.Fprintf(&b, "Indicator (left: %v)\n", c.left)
	}
	for i, cw := range c.words {
		if cw == nil {
			fmt.Fprintf(&b, "%3d:    |   \n", i)
		} else {
			fmt.Fprintf(&b, "%3d: %3d|%3d\n", i, cw.rowNumber, cw.value)
		}
	}
	return b.String()
}
