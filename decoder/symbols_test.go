package decoder

import (
	"testing"

	"github.com/ericlevine/pdf417go"
)

// symbolRuns expands a 17-module symbol pattern into its 8 alternating
// bar/space run lengths.
func symbolRuns(pattern int) []int {
	runs := make([]int, 0, barsInModule)
	bit := (pattern >> (modulesInCodeword - 1)) & 0x1
	length := 0
	for i := modulesInCodeword - 1; i >= 0; i-- {
		b := (pattern >> i) & 0x1
		if b == bit {
			length++
		} else {
			runs = append(runs, length)
			bit = b
			length = 1
		}
	}
	return append(runs, length)
}

func TestDecodeSymbolValueExact(t *testing.T) {
	for i := 0; i < len(symbolTable); i += 41 {
		symbol := symbolTable[i]
		if got := decodeSymbolValue(symbolRuns(symbol)); got != symbol {
			t.Errorf("symbol %x decoded as %x", symbol, got)
		}
	}
}

func TestDecodeSymbolValueScaled(t *testing.T) {
	// A symbol sampled at three pixels per module must decode identically.
	for i := 0; i < len(symbolTable); i += 97 {
		symbol := symbolTable[i]
		runs := symbolRuns(symbol)
		for j := range runs {
			runs[j] *= 3
		}
		if got := decodeSymbolValue(runs); got != symbol {
			t.Errorf("scaled symbol %x decoded as %x", symbol, got)
		}
	}
}

func TestDecodeSymbolValueDistorted(t *testing.T) {
	// Growing one run by a single pixel at four pixels per module keeps
	// decodeSymbolValue on the original symbol.
	symbol := symbolTable[500]
	runs := symbolRuns(symbol)
	for j := range runs {
		runs[j] *= 4
	}
	runs[3]++
	if got := decodeSymbolValue(runs); got != symbol {
		t.Errorf("distorted symbol %x decoded as %x", symbol, got)
	}
}

func TestSampledSymbolValueClean(t *testing.T) {
	symbol := symbolTable[0]
	if got := sampledSymbolValue(symbolRuns(symbol)); got != symbol {
		t.Errorf("sampled value = %x, want %x", got, symbol)
	}
}

func TestSymbolBucketMatchesCluster(t *testing.T) {
	for _, cluster := range []int{0, 3, 6} {
		for value := 0; value < numberOfCodewords; value += 101 {
			pattern := pdf417go.CodewordPattern(cluster, value)
			if got := symbolBucket(pattern); got != cluster {
				t.Errorf("pattern %x of cluster %d has bucket %d", pattern, cluster, got)
			}
		}
	}
}
