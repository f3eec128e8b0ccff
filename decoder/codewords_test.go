package decoder

import (
	"testing"

	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/bitutil"
)

func TestCodewordFitsRow(t *testing.T) {
	cases := []struct {
		bucket, row int
		want        bool
	}{
		{0, 0, true},
		{0, 3, true},
		{3, 1, true},
		{6, 2, true},
		{3, 0, false},
		{6, 1, false},
		{0, rowUnknown, false},
	}
	for _, c := range cases {
		cw := newCodeword(0, 17, c.bucket, 100)
		if got := cw.fitsRow(c.row); got != c.want {
			t.Errorf("bucket %d row %d: fitsRow = %v, want %v", c.bucket, c.row, got, c.want)
		}
	}
}

func TestCodewordMarkAsIndicator(t *testing.T) {
	// An indicator codeword encodes its row number in value/30 and its
	// bucket: row 7 in bucket 3 carries value 30*2 + payload.
	cw := newCodeword(0, 17, 3, 65)
	cw.markAsIndicator()
	if cw.rowNumber != 7 {
		t.Errorf("row number = %d, want 7", cw.rowNumber)
	}
	if !cw.hasValidRow() {
		t.Error("indicator row should be consistent with its bucket")
	}
}

func TestNewBoundingBoxMissingSides(t *testing.T) {
	image := bitutil.NewBitMatrixWithSize(100, 50)
	topLeft := &pdf417go.ResultPoint{X: 10, Y: 5}
	bottomLeft := &pdf417go.ResultPoint{X: 10, Y: 45}
	topRight := &pdf417go.ResultPoint{X: 80, Y: 5}
	bottomRight := &pdf417go.ResultPoint{X: 80, Y: 45}

	if _, err := newBoundingBox(image, nil, nil, nil, nil); err == nil {
		t.Error("expected error with no corners at all")
	}

	box, err := newBoundingBox(image, topLeft, bottomLeft, nil, nil)
	if err != nil {
		t.Fatalf("missing right side: %v", err)
	}
	if box.maxX != image.Width()-1 {
		t.Errorf("maxX = %d, want image edge %d", box.maxX, image.Width()-1)
	}

	box, err = newBoundingBox(image, nil, nil, topRight, bottomRight)
	if err != nil {
		t.Fatalf("missing left side: %v", err)
	}
	if box.minX != 0 {
		t.Errorf("minX = %d, want 0", box.minX)
	}
}

func TestBoundingBoxWithMissingRows(t *testing.T) {
	image := bitutil.NewBitMatrixWithSize(100, 50)
	box, err := newBoundingBox(image,
		&pdf417go.ResultPoint{X: 10, Y: 20},
		&pdf417go.ResultPoint{X: 10, Y: 30},
		&pdf417go.ResultPoint{X: 80, Y: 20},
		&pdf417go.ResultPoint{X: 80, Y: 30})
	if err != nil {
		t.Fatal(err)
	}

	grown, err := box.withMissingRows(5, 8, true)
	if err != nil {
		t.Fatal(err)
	}
	if grown.minY != 15 || grown.maxY != 38 {
		t.Errorf("grown to y [%d, %d], want [15, 38]", grown.minY, grown.maxY)
	}

	clamped, err := box.withMissingRows(100, 100, true)
	if err != nil {
		t.Fatal(err)
	}
	if clamped.minY != 0 || clamped.maxY != image.Height()-1 {
		t.Errorf("clamped to y [%d, %d], want [0, %d]", clamped.minY, clamped.maxY, image.Height()-1)
	}
}

func TestMergeBoxes(t *testing.T) {
	image := bitutil.NewBitMatrixWithSize(100, 50)
	left, err := newBoundingBox(image,
		&pdf417go.ResultPoint{X: 10, Y: 5},
		&pdf417go.ResultPoint{X: 10, Y: 45},
		&pdf417go.ResultPoint{X: 40, Y: 5},
		&pdf417go.ResultPoint{X: 40, Y: 45})
	if err != nil {
		t.Fatal(err)
	}
	right, err := newBoundingBox(image,
		&pdf417go.ResultPoint{X: 60, Y: 5},
		&pdf417go.ResultPoint{X: 60, Y: 45},
		&pdf417go.ResultPoint{X: 90, Y: 5},
		&pdf417go.ResultPoint{X: 90, Y: 45})
	if err != nil {
		t.Fatal(err)
	}

	merged, err := mergeBoxes(left, right)
	if err != nil {
		t.Fatal(err)
	}
	if merged.minX != 10 || merged.maxX != 90 {
		t.Errorf("merged x [%d, %d], want [10, 90]", merged.minX, merged.maxX)
	}

	if got, _ := mergeBoxes(nil, right); got != right {
		t.Error("nil left should pass the right box through")
	}
	if got, _ := mergeBoxes(left, nil); got != left {
		t.Error("nil right should pass the left box through")
	}
}
