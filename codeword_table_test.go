package pdf417go

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// runLengths expands a 17-module pattern into its 8 alternating bar/space
// run lengths, leading bar first.
func runLengths(pattern int) []int {
	var runs []int
	bit := (pattern >> (ModulesInCodeword - 1)) & 0x1
	length := 0
	for i := ModulesInCodeword - 1; i >= 0; i-- {
		b := (pattern >> i) & 0x1
		if b == bit {
			length++
		} else {
			runs = append(runs, length)
			bit = b
			length = 1
		}
	}
	runs = append(runs, length)
	return runs
}

func TestSymbolTableSize(t *testing.T) {
	if len(SymbolTable) != 3*NumberOfCodewords {
		t.Fatalf("symbol table has %d entries, want %d", len(SymbolTable), 3*NumberOfCodewords)
	}
	for i := 1; i < len(SymbolTable); i++ {
		if SymbolTable[i] <= SymbolTable[i-1] {
			t.Fatalf("symbol table not strictly ascending at %d: %d <= %d",
				i, SymbolTable[i], SymbolTable[i-1])
		}
	}
}

func TestSymbolStructure(t *testing.T) {
	for _, symbol := range SymbolTable {
		if symbol>>(ModulesInCodeword-1) != 1 {
			t.Fatalf("symbol %x does not start with a bar in module 17", symbol)
		}
		if symbol&0x1 != 0 {
			t.Fatalf("symbol %x does not end with a space", symbol)
		}
		runs := runLengths(symbol)
		if len(runs) != BarsInModule {
			t.Fatalf("symbol %x has %d runs, want %d", symbol, len(runs), BarsInModule)
		}
		for _, r := range runs {
			if r < 1 || r > 6 {
				t.Fatalf("symbol %x has run of length %d", symbol, r)
			}
		}
	}
}

func TestSymbolClusters(t *testing.T) {
	for cluster := 0; cluster <= 6; cluster += 3 {
		for value := 0; value < NumberOfCodewords; value++ {
			runs := runLengths(CodewordPattern(cluster, value))
			got := (runs[0] - runs[2] + runs[4] - runs[6] + 9) % 9
			if got != cluster {
				t.Fatalf("pattern for cluster %d value %d lands in cluster %d",
					cluster, value, got)
			}
		}
	}
}

func TestGetCodewordRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("codeword value survives pattern lookup", prop.ForAll(
		func(cluster, value int) bool {
			pattern := CodewordPattern(cluster*3, value)
			return GetCodeword(pattern) == value
		},
		gen.IntRange(0, 2),
		gen.IntRange(0, NumberOfCodewords-1),
	))

	properties.TestingRun(t)
}

func TestGetCodewordUnknownSymbol(t *testing.T) {
	if got := GetCodeword(0); got != -1 {
		t.Errorf("GetCodeword(0) = %d, want -1", got)
	}
	// All bars is not a valid symbol.
	if got := GetCodeword(1<<ModulesInCodeword - 1); got != -1 {
		t.Errorf("GetCodeword(all bars) = %d, want -1", got)
	}
}
