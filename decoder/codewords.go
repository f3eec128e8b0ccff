package decoder

import (
	"fmt"
	"sort"
)

// rowUnknown marks a codeword whose barcode row has not been determined yet.
const rowUnknown = -1

// codeword is one decoded symbol: its horizontal extent in the image, its
// cluster bucket, its value, and the barcode row it was assigned to.
type codeword struct {
	startX    int
	endX      int
	bucket    int
	value     int
	rowNumber int
}

func newCodeword(startX, endX, bucket, value int) *codeword {
	return &codeword{startX: startX, endX: endX, bucket: bucket, value: value, rowNumber: rowUnknown}
}

func (c *codeword) width() int {
	return c.endX - c.startX
}

// fitsRow reports whether row is consistent with this codeword's bucket.
// Buckets cycle 0, 3, 6 down the barcode rows.
func (c *codeword) fitsRow(row int) bool {
	return row != rowUnknown && c.bucket == (row%3)*3
}

func (c *codeword) hasValidRow() bool {
	return c.fitsRow(c.rowNumber)
}

// markAsIndicator derives the row number from the value, the way row
// indicator columns encode it.
func (c *codeword) markAsIndicator() {
	c.rowNumber = (c.value/30)*3 + c.bucket/3
}

func (c *codeword) String() string {
	return fmt.Sprintf("%d|%d", c.rowNumber, c.value)
}

// votes tallies how often each candidate value was seen.
type votes map[int]int

func (v votes) add(value int) {
	v[value]++
}

// best returns every value tied for the highest tally in ascending order,
// or nil when nothing has been voted for.
func (v votes) best() []int {
	top := -1
	var result []int
	for value, n := range v {
		switch {
		case n > top:
			top = n
			result = []int{value}
		case n == top:
			result = append(result, value)
		}
	}
	sort.Ints(result)
	return result
}

func (v votes) count(value int) int {
	return v[value]
}

// barcodeMetadata is the symbol geometry encoded in the row indicator
// columns. The row count is split across two indicator codewords.
type barcodeMetadata struct {
	columnCount int
	ecLevel     int
	rowsUpper   int
	rowsLower   int
}

func (m *barcodeMetadata) rowCount() int {
	return m.rowsUpper + m.rowsLower
}
