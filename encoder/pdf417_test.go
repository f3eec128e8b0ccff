package encoder

import (
	"strings"
	"testing"
)

func TestGenerateBarcodeLogicBasic(t *testing.T) {
	enc := NewEncoder()
	if err := enc.GenerateBarcodeLogic("Hello, World!", 2); err != nil {
		t.Fatalf("encode error: %v", err)
	}
	matrix := enc.BarcodeMatrix().Matrix()
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		t.Fatal("expected non-empty matrix")
	}
	// Row layout: start, left indicator, data columns, right indicator,
	// stop bar; every pattern is 17 modules except the 18-module stop.
	cols := (len(matrix[0])-1)/17 - 4
	if cols < 2 || cols > 30 {
		t.Errorf("matrix implies %d data columns", cols)
	}
	t.Logf("matrix size: %dx%d", len(matrix[0]), len(matrix))
}

func TestGenerateBarcodeLogicInvalidErrorCorrectionLevel(t *testing.T) {
	enc := NewEncoder()
	for _, level := range []int{-1, 9} {
		if err := enc.GenerateBarcodeLogic("test", level); err == nil {
			t.Errorf("level %d: expected error", level)
		}
	}
}

func TestGenerateBarcodeLogicTooLarge(t *testing.T) {
	enc := NewEncoder()
	if err := enc.GenerateBarcodeLogic(strings.Repeat("x", 2000), 8); err == nil {
		t.Error("expected error for oversized message")
	}
}

func TestGenerateBarcodeLogicCompact(t *testing.T) {
	full := NewEncoder()
	if err := full.GenerateBarcodeLogic("compact test", 2); err != nil {
		t.Fatal(err)
	}
	compact := NewEncoder()
	compact.SetCompact(true)
	if err := compact.GenerateBarcodeLogic("compact test", 2); err != nil {
		t.Fatal(err)
	}

	fullWidth := len(full.BarcodeMatrix().Matrix()[0])
	compactWidth := len(compact.BarcodeMatrix().Matrix()[0])
	if compactWidth >= fullWidth {
		t.Errorf("compact width %d not smaller than full width %d", compactWidth, fullWidth)
	}
}

func TestGenerateBarcodeLogicFixedDimensions(t *testing.T) {
	enc := NewEncoder()
	enc.SetDimensions(5, 5, 30, 2)
	if err := enc.GenerateBarcodeLogic("dimension test", 2); err != nil {
		t.Fatal(err)
	}
	matrix := enc.BarcodeMatrix().Matrix()
	wantWidth := (5+4)*17 + 1
	if len(matrix[0]) != wantWidth {
		t.Errorf("row width %d, want %d", len(matrix[0]), wantWidth)
	}
}

func TestDetermineDimensionsTinyMessage(t *testing.T) {
	enc := NewEncoder()
	cols, rows, err := enc.determineDimensions(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if cols < enc.minCols || cols > enc.maxCols || rows < enc.minRows || rows > enc.maxRows {
		t.Errorf("dimensions %dx%d outside configured bounds", cols, rows)
	}
}

func TestCalculateNumberOfRows(t *testing.T) {
	cases := []struct {
		source, ec, cols, want int
	}{
		{10, 4, 5, 3},
		{10, 4, 3, 5},
		{1, 2, 2, 2},
	}
	for _, c := range cases {
		if got := calculateNumberOfRows(c.source, c.ec, c.cols); got != c.want {
			t.Errorf("calculateNumberOfRows(%d, %d, %d) = %d, want %d",
				c.source, c.ec, c.cols, got, c.want)
		}
	}
}

func TestEncodeHighLevelNumericLatch(t *testing.T) {
	// 16 digits use numeric compaction, which starts with codeword 902.
	encoded, err := EncodeHighLevel("1234567890123456", CompactionAuto)
	if err != nil {
		t.Fatal(err)
	}
	if len(encoded) == 0 {
		t.Fatal("empty encoding")
	}
	if []rune(encoded)[0] != 902 {
		t.Errorf("first codeword = %d, want 902 (numeric latch)", []rune(encoded)[0])
	}
}

func TestEncodeHighLevelByteLatch(t *testing.T) {
	encoded, err := EncodeHighLevel(string([]byte{0x01, 0x02, 0x03, 0x6f, 0x00, 0x7f, 0x15}), CompactionByte)
	if err != nil {
		t.Fatal(err)
	}
	first := []rune(encoded)[0]
	if first != 901 && first != 924 {
		t.Errorf("first codeword = %d, want a byte compaction latch", first)
	}
}

func TestEncodeHighLevelText(t *testing.T) {
	encoded, err := EncodeHighLevel("PDF417", CompactionText)
	if err != nil {
		t.Fatal(err)
	}
	if len(encoded) == 0 {
		t.Fatal("empty encoding")
	}
	for _, r := range encoded {
		if r > 928 {
			t.Errorf("codeword %d out of range", r)
		}
	}
}
