package pdf417go

import "sort"

// SymbolTable holds the 17-bit bar/space patterns of every codeword in all
// three clusters, sorted ascending for binary search. CodewordValues holds
// the codeword value (0..928) at the same index.
//
// Both tables are derived at startup from the codeword construction rules:
// a codeword is 17 modules wide, four bars and four spaces alternating,
// each run one to six modules, and its cluster number is
// (b0 - b2 + b4 - b6) mod 9 where b are the run lengths. Only clusters 0,
// 3, and 6 are used; within a cluster, values are assigned in ascending
// pattern order. A pattern determines its cluster, so the three sets are
// disjoint.
var (
	SymbolTable    []int
	CodewordValues []int

	clusterPatterns [3][NumberOfCodewords]int
)

func init() {
	var lists [3][]int
	runs := make([]int, BarsInModule)
	var build func(idx, remaining int)
	build = func(idx, remaining int) {
		if idx == BarsInModule-1 {
			if remaining < 1 || remaining > 6 {
				return
			}
			runs[idx] = remaining
			cluster := (runs[0] - runs[2] + runs[4] - runs[6] + 9) % 9
			if cluster%3 != 0 {
				return
			}
			pattern := 0
			for i, r := range runs {
				pattern <<= r
				if i%2 == 0 {
					pattern |= (1 << r) - 1
				}
			}
			lists[cluster/3] = append(lists[cluster/3], pattern)
			return
		}
		for r := 1; r <= 6 && remaining-r >= BarsInModule-1-idx; r++ {
			runs[idx] = r
			build(idx+1, remaining-r)
		}
	}
	build(0, ModulesInCodeword)

	for k := range lists {
		sort.Ints(lists[k])
		copy(clusterPatterns[k][:], lists[k][:NumberOfCodewords])
	}

	SymbolTable = make([]int, 0, 3*NumberOfCodewords)
	for k := range clusterPatterns {
		SymbolTable = append(SymbolTable, clusterPatterns[k][:]...)
	}
	sort.Ints(SymbolTable)

	CodewordValues = make([]int, len(SymbolTable))
	for k := range clusterPatterns {
		for value, pattern := range clusterPatterns[k] {
			CodewordValues[sort.SearchInts(SymbolTable, pattern)] = value
		}
	}
}

// GetCodeword returns the codeword value (0..928) for the given 17-bit
// bar/space pattern, or -1 if the pattern is not in the symbol table.
func GetCodeword(symbol int) int {
	i := sort.SearchInts(SymbolTable, symbol)
	if i >= len(SymbolTable) || SymbolTable[i] != symbol {
		return -1
	}
	return CodewordValues[i]
}

// CodewordPattern returns the 17-bit bar/space pattern for the given
// codeword value in the given cluster (0, 3, or 6).
func CodewordPattern(cluster, value int) int {
	return clusterPatterns[cluster/3][value]
}
