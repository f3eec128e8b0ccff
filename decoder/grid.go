package decoder

import (
	"fmt"
	"strings"
)

// maxRowMisses bounds how many consecutive codewords in a row may reject
// an indicator's row number before the sweep gives up on that row.
const maxRowMisses = 2

// grid assembles the detected columns of one symbol. Slot 0 holds the left
// row indicator, slot columnCount+1 the right one, data columns sit between.
type grid struct {
	meta *barcodeMetadata
	cols []*column
	box  *boundingBox
}

func newGrid(meta *barcodeMetadata, box *boundingBox) *grid {
	return &grid{
		meta: meta,
		cols: make([]*column, meta.columnCount+2),
		box:  box,
	}
}

func (g *grid) dataColumns() int {
	return g.meta.columnCount
}

// alignedColumns reconciles row numbers across the grid until no further
// progress is made, then returns the columns.
func (g *grid) alignedColumns() []*column {
	g.adjustIndicator(g.cols[0])
	g.adjustIndicator(g.cols[g.dataColumns()+1])
	unresolved := maxCodewordsInBarcode
	for {
		previous := unresolved
		unresolved = g.reconcileRows()
		if unresolved <= 0 || unresolved >= previous {
			break
		}
	}
	return g.cols
}

func (g *grid) adjustIndicator(c *column) {
	if c != nil && c.indicator {
		c.adjustCompleteRows(g.meta)
	}
}

func (g *grid) reconcileRows() int {
	unresolved := g.reconcileFromIndicators()
	if unresolved == 0 {
		return 0
	}
	for col := 1; col <= g.dataColumns(); col++ {
		words := g.cols[col].words
		for row, cw := range words {
			if cw != nil && !cw.hasValidRow() {
				g.adoptFromNeighbors(col, row, words)
			}
		}
	}
	return unresolved
}

func (g *grid) reconcileFromIndicators() int {
	g.stampAgreedRows()
	return g.sweepFromLeft() + g.sweepFromRight()
}

// stampAgreedRows handles the easy case: when both indicators name the same
// row at an image row, every data codeword there takes that row, and any
// codeword whose bucket contradicts it is dropped.
func (g *grid) stampAgreedRows() {
	leftCol := g.cols[0]
	rightCol := g.cols[g.dataColumns()+1]
	if leftCol == nil || rightCol == nil {
		return
	}
	for row := range leftCol.words {
		left, right := leftCol.words[row], rightCol.words[row]
		if left == nil || right == nil || left.rowNumber != right.rowNumber {
			continue
		}
		for col := 1; col <= g.dataColumns(); col++ {
			cw := g.cols[col].words[row]
			if cw == nil {
				continue
			}
			cw.rowNumber = left.rowNumber
			if !cw.hasValidRow() {
				g.cols[col].words[row] = nil
			}
		}
	}
}

// sweepFromLeft pushes the left indicator's row numbers rightward across
// each image row, stopping after too many rejections in a row. It returns
// how many codewords still lack a valid row.
func (g *grid) sweepFromLeft() int {
	if g.cols[0] == nil {
		return 0
	}
	unresolved := 0
	for row, indicator := range g.cols[0].words {
		if indicator == nil {
			continue
		}
		misses := 0
		for col := 1; col <= g.dataColumns() && misses < maxRowMisses; col++ {
			cw := g.cols[col].words[row]
			if cw == nil {
				continue
			}
			misses = adoptRowIfValid(cw, indicator.rowNumber, misses)
			if !cw.hasValidRow() {
				unresolved++
			}
		}
	}
	return unresolved
}

// sweepFromRight is the mirror sweep from the right indicator. It revisits
// the indicator column itself, which rechecks codewords the pruning passes
// may have re-marked.
func (g *grid) sweepFromRight() int {
	last := g.dataColumns() + 1
	if g.cols[last] == nil {
		return 0
	}
	unresolved := 0
	for row, indicator := range g.cols[last].words {
		if indicator == nil {
			continue
		}
		misses := 0
		for col := last; col >= 1 && misses < maxRowMisses; col-- {
			cw := g.cols[col].words[row]
			if cw == nil {
				continue
			}
			misses = adoptRowIfValid(cw, indicator.rowNumber, misses)
			if !cw.hasValidRow() {
				unresolved++
			}
		}
	}
	return unresolved
}

func adoptRowIfValid(cw *codeword, row, misses int) int {
	if cw.hasValidRow() {
		return misses
	}
	if cw.fitsRow(row) {
		cw.rowNumber = row
		return 0
	}
	return misses + 1
}

// adoptFromNeighbors assigns a row number from the nearest neighbor in the
// same bucket, trying direct neighbors before diagonal ones and closer rows
// before farther ones.
func (g *grid) adoptFromNeighbors(col, row int, words []*codeword) {
	cw := words[row]
	prev := g.cols[col-1].words
	next := prev
	if g.cols[col+1] != nil {
		next = g.cols[col+1].words
	}

	neighbors := make([]*codeword, 0, 14)
	if row > 0 {
		neighbors = append(neighbors, words[row-1])
	}
	if row < len(words)-1 {
		neighbors = append(neighbors, words[row+1])
	}
	neighbors = append(neighbors, prev[row], next[row])
	if row > 0 {
		neighbors = append(neighbors, prev[row-1], next[row-1])
	}
	if row < len(words)-1 {
		neighbors = append(neighbors, prev[row+1], next[row+1])
	}
	if row > 1 {
		neighbors = append(neighbors, words[row-2])
	}
	if row < len(words)-2 {
		neighbors = append(neighbors, words[row+2])
	}
	if row > 1 {
		neighbors = append(neighbors, prev[row-2], next[row-2])
	}
	if row < len(words)-2 {
		neighbors = append(neighbors, prev[row+2], next[row+2])
	}

	for _, other := range neighbors {
		if other != nil && other.hasValidRow() && other.bucket == cw.bucket {
			cw.rowNumber = other.rowNumber
			return
		}
	}
}

func (g *grid) String() string {
	indicator := g.cols[0]
	if indicator == nil {
		indicator = g.cols[g.dataColumns()+1]
	}
	var b strings.Builder
	for row := range indicator.words {
		fmt.Fprintf(&b, "CW %3d:", row)
		for col := 0; col < g.dataColumns()+2; col++ {
			if g.cols[col] == nil || g.cols[col].words[row] == nil {
				b.WriteString("    |   ")
				continue
			}
			cw := g.cols[col].words[row]
			fmt.Fprintf(&b, " %3d|%3d", cw.rowNumber, cw.value)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
