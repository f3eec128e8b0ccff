package pdf417go_test

import (
	"fmt"
	"image"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/binarizer"
	"github.com/ericlevine/pdf417go/decoder"
	"github.com/ericlevine/pdf417go/encoder"
)

var rotationContents = []string{
	"ROTATION-TEST-001",
	"mixed Case with spaces and 12345",
	"https://example.com/ticket?id=8675309",
}

func rotateImage(img image.Image, degrees int) image.Image {
	switch degrees % 360 {
	case 0:
		return img
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	default:
		panic(fmt.Sprintf("unsupported rotation: %d degrees", degrees))
	}
}

// tryDecode attempts a decode, recovering from panics so one bad rendering
// cannot crash the whole run.
func tryDecode(bitmap *pdf417go.BinaryBitmap, opts *pdf417go.DecodeOptions) (result *pdf417go.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("decoder panic: %v", r)
		}
	}()
	return decoder.NewReader().Decode(bitmap, opts)
}

func TestDecodeRotatedSymbols(t *testing.T) {
	writer := encoder.NewPDF417Writer()
	for i, content := range rotationContents {
		matrix, err := writer.Encode(content, 600, 300, nil)
		if err != nil {
			t.Fatalf("encode %q: %v", content, err)
		}
		base := pdf417go.BitMatrixToImage(matrix)

		for _, degrees := range []int{0, 90, 180, 270} {
			t.Run(fmt.Sprintf("symbol%d_rot%d", i, degrees), func(t *testing.T) {
				rotated := rotateImage(base, degrees)
				source := pdf417go.NewImageLuminanceSource(rotated)
				bitmap := pdf417go.NewBinaryBitmap(binarizer.NewHybrid(source))

				result, err := tryDecode(bitmap, nil)
				if err != nil {
					t.Fatalf("decode at %d degrees: %v", degrees, err)
				}
				if result.Text != content {
					t.Errorf("got %q, want %q", result.Text, content)
				}
			})
		}
	}
}

func TestDecodeInvertedSymbol(t *testing.T) {
	writer := encoder.NewPDF417Writer()
	content := "inverted symbol"
	matrix, err := writer.Encode(content, 600, 300, nil)
	if err != nil {
		t.Fatal(err)
	}
	img := imaging.Invert(pdf417go.BitMatrixToImage(matrix))
	source := pdf417go.NewImageLuminanceSource(img)
	bitmap := pdf417go.NewBinaryBitmap(binarizer.NewHybrid(source))

	if _, err := tryDecode(bitmap, nil); err == nil {
		t.Fatal("expected plain decode of an inverted symbol to fail")
	}

	result, err := tryDecode(bitmap, &pdf417go.DecodeOptions{AlsoInverted: true})
	if err != nil {
		t.Fatalf("inverted decode: %v", err)
	}
	if result.Text != content {
		t.Errorf("got %q, want %q", result.Text, content)
	}
}
