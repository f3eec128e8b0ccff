package detector_test

import (
	"testing"

	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/binarizer"
	"github.com/ericlevine/pdf417go/bitutil"
	"github.com/ericlevine/pdf417go/detector"
	"github.com/ericlevine/pdf417go/encoder"
)

func renderedSymbol(t *testing.T, content string) *pdf417go.BinaryBitmap {
	t.Helper()
	matrix, err := encoder.NewPDF417Writer().Encode(content, 600, 300, nil)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	img := pdf417go.BitMatrixToImage(matrix)
	source := pdf417go.NewGrayImageLuminanceSource(img)
	return pdf417go.NewBinaryBitmap(binarizer.NewGlobalHistogram(source))
}

func TestDetectFindsSymbol(t *testing.T) {
	bitmap := renderedSymbol(t, "detector test payload")
	matrix, err := bitmap.BlackMatrix()
	if err != nil {
		t.Fatal(err)
	}

	result, err := detector.Detect(matrix, false, false)
	if err != nil {
		t.Fatalf("detect error: %v", err)
	}
	if len(result.Points) == 0 {
		t.Fatal("no barcode located")
	}
	points := result.Points[0]
	if len(points) < 8 {
		t.Fatalf("got %d result points, want 8", len(points))
	}
	if points[4] == nil || points[5] == nil {
		t.Error("missing start pattern corner points")
	}
}

func TestDetectEmptyImage(t *testing.T) {
	matrix := bitutil.NewBitMatrixWithSize(400, 200)

	result, err := detector.Detect(matrix, false, false)
	if err == nil && len(result.Points) > 0 {
		t.Error("detected a barcode in a blank image")
	}
}
