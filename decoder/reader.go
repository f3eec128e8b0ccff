package decoder

import (
	"fmt"
	"math"

	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/detector"
)

// Reader locates and decodes PDF417 barcodes in binary images.
type Reader struct{}

// NewReader creates a new PDF417 reader.
func NewReader() *Reader {
	return &Reader{}
}

// Decode locates and decodes a PDF417 barcode in the given image.
func (r *Reader) Decode(image *pdf417go.BinaryBitmap, opts *pdf417go.DecodeOptions) (*pdf417go.Result, error) {
	results, err := r.decode(image, opts, false)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// DecodeMultiple locates and decodes all PDF417 barcodes in the given image.
func (r *Reader) DecodeMultiple(image *pdf417go.BinaryBitmap, opts *pdf417go.DecodeOptions) ([]*pdf417go.Result, error) {
	return r.decode(image, opts, true)
}

func (r *Reader) decode(image *pdf417go.BinaryBitmap, opts *pdf417go.DecodeOptions, multiple bool) ([]*pdf417go.Result, error) {
	matrix, err := image.BlackMatrix()
	if err != nil {
		return nil, err
	}

	tryHarder := opts != nil && opts.TryHarder
	results, err := decodeMatrix(matrix, multiple, tryHarder)
	if err != nil && opts != nil && opts.AlsoInverted {
		results, err = decodeMatrix(invert(matrix), multiple, tryHarder)
	}
	return results, err
}

func decodeMatrix(matrix *bitutil.BitMatrix, multiple, tryHarder bool) ([]*pdf417go.Result, error) {
	detResult, err := detector.Detect(matrix, multiple, tryHarder)
	if err != nil {
		return nil, err
	}

	var results []*pdf417go.Result
	for _, points := range detResult.Points {
		if len(points) < 8 {
			continue
		}
		minWidth, maxWidth := codewordWidthBounds(points)
		dr, err := Decode(
			detResult.Bits,
			points[4], // imageTopLeft
			points[5], // imageBottomLeft
			points[6], // imageTopRight
			points[7], // imageBottomRight
			minWidth,
			maxWidth,
		)
		if err != nil {
			continue
		}

		result := pdf417go.NewResult(dr.Text, dr.RawBytes, resultPoints(points))
		result.PutMetadata(pdf417go.MetadataErrorCorrectionLevel, dr.ECLevel)
		result.PutMetadata(pdf417go.MetadataErrorsCorrected, dr.ErrorsCorrected)
		result.PutMetadata(pdf417go.MetadataErasuresCorrected, dr.Erasures)
		if dr.Other != nil {
			result.PutMetadata(pdf417go.MetadataPDF417ExtraMetadata, dr.Other)
		}
		result.PutMetadata(pdf417go.MetadataSymbologyIdentifier, fmt.Sprintf("]L%d", dr.SymbologyModifier))

		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, pdf417go.ErrNotFound
	}
	return results, nil
}

// Reset resets internal state.
func (r *Reader) Reset() {}

func resultPoints(points []*pdf417go.ResultPoint) []pdf417go.ResultPoint {
	out := make([]pdf417go.ResultPoint, 0, len(points))
	for _, p := range points {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func invert(matrix *bitutil.BitMatrix) *bitutil.BitMatrix {
	inverted := bitutil.NewBitMatrixWithSize(matrix.Width(), matrix.Height())
	for y := 0; y < matrix.Height(); y++ {
		for x := 0; x < matrix.Width(); x++ {
			if !matrix.Get(x, y) {
				inverted.Set(x, y)
			}
		}
	}
	return inverted
}

// codewordWidthBounds estimates the narrowest and widest codeword from
// the horizontal spans between the start/stop pattern corners. The
// maximum is forced odd so the module sampling grid has a center pixel.
func codewordWidthBounds(points []*pdf417go.ResultPoint) (minWidth, maxWidth int) {
	pairs := [4][2]*pdf417go.ResultPoint{
		{points[0], points[4]},
		{points[6], points[2]},
		{points[1], points[5]},
		{points[7], points[3]},
	}
	minWidth = math.MaxInt
	for _, pair := range pairs {
		if pair[0] == nil || pair[1] == nil {
			minWidth = 0
			continue
		}
		span := int(math.Abs(pair[0].X - pair[1].X))
		minWidth = min(minWidth, span)
		maxWidth = max(maxWidth, span|1)
	}
	if minWidth == math.MaxInt {
		minWidth = 0
	}
	return minWidth, maxWidth
}
