package encoder

import (
	"testing"

	"github.com/ericlevine/pdf417go"
)

func TestPDF417WriterBasic(t *testing.T) {
	writer := NewPDF417Writer()
	matrix, err := writer.Encode("Hello, World!", 400, 200, nil)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if matrix.Width() == 0 || matrix.Height() == 0 {
		t.Fatal("expected non-empty matrix")
	}
	t.Logf("matrix size: %dx%d", matrix.Width(), matrix.Height())
}

func TestPDF417WriterNumeric(t *testing.T) {
	writer := NewPDF417Writer()
	matrix, err := writer.Encode("1234567890123456", 400, 200, nil)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if matrix.Width() == 0 || matrix.Height() == 0 {
		t.Fatal("expected non-empty matrix")
	}
}

func TestPDF417WriterWithOptions(t *testing.T) {
	writer := NewPDF417Writer()
	margin := 10
	ecLevel := 4
	opts := &pdf417go.EncodeOptions{
		Margin:               &margin,
		ErrorCorrectionLevel: &ecLevel,
	}
	matrix, err := writer.Encode("Test with options", 400, 200, opts)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if matrix.Width() == 0 || matrix.Height() == 0 {
		t.Fatal("expected non-empty matrix")
	}
}

func TestPDF417WriterInvalidErrorCorrectionLevel(t *testing.T) {
	writer := NewPDF417Writer()
	ecLevel := 11
	_, err := writer.Encode("test", 400, 200, &pdf417go.EncodeOptions{
		ErrorCorrectionLevel: &ecLevel,
	})
	if err == nil {
		t.Error("expected error for invalid error correction level")
	}
}

func TestPDF417WriterMarginApplied(t *testing.T) {
	writer := NewPDF417Writer()
	zero := 0
	ten := 10
	small, err := writer.Encode("margin", 1, 1, &pdf417go.EncodeOptions{Margin: &zero})
	if err != nil {
		t.Fatal(err)
	}
	padded, err := writer.Encode("margin", 1, 1, &pdf417go.EncodeOptions{Margin: &ten})
	if err != nil {
		t.Fatal(err)
	}
	if padded.Width() != small.Width()+20 || padded.Height() != small.Height()+20 {
		t.Errorf("margin not applied: %dx%d vs %dx%d",
			small.Width(), small.Height(), padded.Width(), padded.Height())
	}
}
