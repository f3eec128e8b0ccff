package encoder

import (
	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
)

const (
	defaultWhiteSpace           = 30
	defaultErrorCorrectionLevel = 2
)

// PDF417Writer encodes PDF417 barcodes.
type PDF417Writer struct{}

// NewPDF417Writer creates a new PDF417 writer.
func NewPDF417Writer() *PDF417Writer {
	return &PDF417Writer{}
}

// Encode encodes the given contents into a PDF417 barcode BitMatrix. The
// symbol is scaled by the largest whole factor that keeps it within the
// requested width and height in pixels (never below one pixel per module)
// and then surrounded by a margin of that many pixels.
func (w *PDF417Writer) Encode(contents string, width, height int, opts *pdf417go.EncodeOptions) (*bitutil.BitMatrix, error) {
	enc := NewEncoder()
	margin := defaultWhiteSpace
	errorCorrectionLevel := defaultErrorCorrectionLevel

	if opts != nil {
		if opts.Compact {
			enc.SetCompact(true)
		}
		if opts.Compaction > 0 {
			enc.SetCompaction(Compaction(opts.Compaction))
		}
		if opts.Dimensions != nil {
			enc.SetDimensions(
				opts.Dimensions.MaxCols,
				opts.Dimensions.MinCols,
				opts.Dimensions.MaxRows,
				opts.Dimensions.MinRows,
			)
		}
		if opts.Margin != nil {
			margin = *opts.Margin
		}
		if opts.ErrorCorrectionLevel != nil {
			errorCorrectionLevel = *opts.ErrorCorrectionLevel
		}
	}

	if err := enc.GenerateBarcodeLogic(contents, errorCorrectionLevel); err != nil {
		return nil, err
	}

	const aspectRatio = 4
	rendered := enc.BarcodeMatrix().ScaledMatrix(1, aspectRatio)
	rotated := (height > width) != (len(rendered[0]) < len(rendered))
	if rotated {
		rendered = rotateClockwise(rendered)
	}

	scale := min(width/len(rendered[0]), height/len(rendered))
	if scale > 1 {
		rendered = enc.BarcodeMatrix().ScaledMatrix(scale, scale*aspectRatio)
		if rotated {
			rendered = rotateClockwise(rendered)
		}
	}
	return toBitMatrix(rendered, margin), nil
}

// toBitMatrix copies the module grid into a BitMatrix surrounded by a
// quiet zone of margin pixels, flipping it vertically so row zero of the
// grid lands at the bottom of the matrix.
func toBitMatrix(modules [][]byte, margin int) *bitutil.BitMatrix {
	h, w := len(modules), len(modules[0])
	out := bitutil.NewBitMatrixWithSize(w+2*margin, h+2*margin)
	for y, row := range modules {
		for x, module := range row {
			if module == 1 {
				out.Set(x+margin, h-1-y+margin)
			}
		}
	}
	return out
}

func rotateClockwise(in [][]byte) [][]byte {
	rows, cols := len(in), len(in[0])
	out := make([][]byte, cols)
	for x := range out {
		out[x] = make([]byte, rows)
		for y := 0; y < rows; y++ {
			out[x][rows-1-y] = in[y][x]
		}
	}
	return out
}
