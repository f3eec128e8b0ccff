package encoder

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestErrorCorrectionCodewordCount(t *testing.T) {
	want := []int{2, 4, 8, 16, 32, 64, 128, 256, 512}
	for level, k := range want {
		if got := errorCorrectionCodewordCount(level); got != k {
			t.Errorf("level %d: got %d codewords, want %d", level, got, k)
		}
	}
}

func TestGenerateErrorCorrectionInvalidLevel(t *testing.T) {
	for _, level := range []int{-1, 9} {
		if _, err := generateErrorCorrection([]int{5, 453, 178}, level); err == nil {
			t.Errorf("level %d: expected error", level)
		}
	}
}

// syndromes evaluates the full codeword polynomial (data followed by error
// correction, first codeword the highest-degree coefficient) at 3^1 .. 3^k
// over GF(929). A well-formed sequence has all-zero syndromes.
func syndromes(codewords []int, k int) []int {
	out := make([]int, k)
	root := 1
	for i := 0; i < k; i++ {
		root = root * 3 % 929
		eval := 0
		for _, c := range codewords {
			eval = (eval*root + c) % 929
		}
		out[i] = eval
	}
	return out
}

func TestGenerateErrorCorrectionSyndromes(t *testing.T) {
	for level := 0; level <= 8; level++ {
		data := []int{16, 902, 1, 278, 827, 900, 295, 902, 2, 326, 823, 544, 900, 149, 900, 900}
		ec, err := generateErrorCorrection(data, level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		k := errorCorrectionCodewordCount(level)
		if len(ec) != k {
			t.Fatalf("level %d: got %d error correction codewords, want %d", level, len(ec), k)
		}
		full := append(append([]int{}, data...), ec...)
		for i, s := range syndromes(full, k) {
			if s != 0 {
				t.Errorf("level %d: syndrome %d = %d, want 0", level, i+1, s)
			}
		}
	}
}

func TestGenerateErrorCorrectionSyndromesProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("error correction yields zero syndromes", prop.ForAll(
		func(data []int, level int) bool {
			ec, err := generateErrorCorrection(data, level)
			if err != nil {
				return false
			}
			full := append(append([]int{}, data...), ec...)
			for _, s := range syndromes(full, errorCorrectionCodewordCount(level)) {
				if s != 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(20, gen.IntRange(0, 928)),
		gen.IntRange(0, 8),
	))

	properties.TestingRun(t)
}
