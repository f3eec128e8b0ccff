package pdf417go_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/binarizer"
	"github.com/ericlevine/pdf417go/decoder"
	"github.com/ericlevine/pdf417go/encoder"
)

func encodeAndDecode(t *testing.T, content string, opts *pdf417go.EncodeOptions) *pdf417go.Result {
	t.Helper()

	writer := encoder.NewPDF417Writer()
	matrix, err := writer.Encode(content, 600, 300, opts)
	require.NoError(t, err, "encode %q", content)
	require.NotZero(t, matrix.Width())
	require.NotZero(t, matrix.Height())

	img := pdf417go.BitMatrixToImage(matrix)
	source := pdf417go.NewGrayImageLuminanceSource(img)
	bitmap := pdf417go.NewBinaryBitmap(binarizer.NewGlobalHistogram(source))

	reader := decoder.NewReader()
	result, err := reader.Decode(bitmap, nil)
	require.NoError(t, err, "decode %q", content)
	return result
}

func TestRoundTripText(t *testing.T) {
	content := "Hello, World!"
	result := encodeAndDecode(t, content, nil)
	assert.Equal(t, content, result.Text)
}

func TestRoundTripNumeric(t *testing.T) {
	content := "12345678901234567890"
	result := encodeAndDecode(t, content, nil)
	assert.Equal(t, content, result.Text)
}

func TestRoundTripMixed(t *testing.T) {
	content := "PDF417 test: punctuation, CASE, and 0123456789."
	result := encodeAndDecode(t, content, nil)
	assert.Equal(t, content, result.Text)
}

func TestRoundTripBinary(t *testing.T) {
	content := string([]byte{0x01, 0x7f, 0x3a, 0x00, 0x42, 0xc3, 0xa9})
	result := encodeAndDecode(t, content, nil)
	assert.Equal(t, content, result.Text)
}

func TestRoundTripLong(t *testing.T) {
	content := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 8)
	result := encodeAndDecode(t, content, nil)
	assert.Equal(t, content, result.Text)
}

func TestRoundTripErrorCorrectionLevels(t *testing.T) {
	content := "error correction sweep"
	for level := 0; level <= 8; level++ {
		t.Run(fmt.Sprintf("level%d", level), func(t *testing.T) {
			opts := &pdf417go.EncodeOptions{ErrorCorrectionLevel: &level}
			result := encodeAndDecode(t, content, opts)
			assert.Equal(t, content, result.Text)
			assert.Equal(t, fmt.Sprintf("%d", level),
				result.Metadata[pdf417go.MetadataErrorCorrectionLevel])
		})
	}
}

func TestRoundTripFixedColumns(t *testing.T) {
	content := "fixed column layout"
	opts := &pdf417go.EncodeOptions{
		Dimensions: &pdf417go.DimensionConfig{
			MinCols: 4, MaxCols: 4,
			MinRows: 2, MaxRows: 30,
		},
	}
	result := encodeAndDecode(t, content, opts)
	assert.Equal(t, content, result.Text)
}

func TestRoundTripSymbologyIdentifier(t *testing.T) {
	result := encodeAndDecode(t, "identifier", nil)
	id, ok := result.Metadata[pdf417go.MetadataSymbologyIdentifier].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(id, "]L"), "identifier %q", id)
}

func TestDecodeNotFound(t *testing.T) {
	// A blank image contains no barcode.
	img := pdf417go.BitMatrixToImage(blankMatrix(200, 100))
	source := pdf417go.NewGrayImageLuminanceSource(img)
	bitmap := pdf417go.NewBinaryBitmap(binarizer.NewGlobalHistogram(source))

	_, err := decoder.NewReader().Decode(bitmap, nil)
	assert.ErrorIs(t, err, pdf417go.ErrNotFound)
}

type blankBits struct{ w, h int }

func (b blankBits) Width() int        { return b.w }
func (b blankBits) Height() int       { return b.h }
func (b blankBits) Get(x, y int) bool { return false }

func blankMatrix(w, h int) blankBits { return blankBits{w, h} }
