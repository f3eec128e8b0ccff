package pdf417go

import "github.com/ericlevine/pdf417go/bitutil"

// Compaction modes for encoding.
const (
	CompactionAuto = iota
	CompactionText
	CompactionByte
	CompactionNumeric
)

// EncodeOptions configures barcode encoding behavior.
type EncodeOptions struct {
	// ErrorCorrectionLevel specifies the error correction level (0-8).
	ErrorCorrectionLevel *int

	// Margin specifies the margin (quiet zone) in pixels around the barcode.
	Margin *int

	// Compact enables compact (truncated) mode, dropping the right row
	// indicator and most of the stop pattern.
	Compact bool

	// Compaction forces a compaction mode instead of automatic selection.
	Compaction int

	// Dimensions specifies min/max rows/cols.
	Dimensions *DimensionConfig
}

// DimensionConfig specifies min/max rows/cols for the generated symbol.
type DimensionConfig struct {
	MinRows, MaxRows int
	MinCols, MaxCols int
}

// Writer encodes data into a barcode.
type Writer interface {
	// Encode encodes the given contents into a barcode.
	Encode(contents string, width, height int, opts *EncodeOptions) (*bitutil.BitMatrix, error)
}
