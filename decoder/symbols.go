package decoder

import "math"

// symbolRatios holds, for every entry of the symbol table, each of its
// eight runs as a fraction of the codeword width. It backs the
// nearest-neighbor fallback in decodeSymbolValue.
var symbolRatios [3 * numberOfCodewords][barsInModule]float32

func init() {
	for i, symbol := range symbolTable {
		bit := symbol & 1
		for run := 0; run < barsInModule; run++ {
			var size float32
			for symbol&1 == bit {
				size++
				symbol >>= 1
			}
			bit = symbol & 1
			symbolRatios[i][barsInModule-run-1] = size / modulesInCodeword
		}
	}
}

// decodeSymbolValue turns eight measured bar/space run widths into a
// symbol value. It first resamples the runs onto the 17-module grid; if
// the resampled pattern is not a valid symbol it falls back to the
// closest entry by run-width ratios.
func decodeSymbolValue(runs []int) int {
	if value := sampledSymbolValue(runs); value != -1 {
		return value
	}
	return closestSymbolValue(runs)
}

// sampledSymbolValue reads the pixel color at the center of each of the
// 17 module positions and rebuilds the bit pattern from those samples.
func sampledSymbolValue(runs []int) int {
	total := sumInts(runs)
	sampled := make([]int, barsInModule)
	runIndex := 0
	passed := 0
	for i := 0; i < modulesInCodeword; i++ {
		center := float64(total)/(2*modulesInCodeword) + float64(i)*float64(total)/modulesInCodeword
		if float64(passed+runs[runIndex]) <= center {
			passed += runs[runIndex]
			runIndex++
		}
		sampled[runIndex]++
	}
	value := symbolBits(sampled)
	if getCodeword(value) == -1 {
		return -1
	}
	return value
}

// symbolBits expands run lengths back into the bit pattern they encode,
// even-indexed runs being bars.
func symbolBits(runs []int) int {
	var value int64
	for i, length := range runs {
		for bit := 0; bit < length; bit++ {
			value <<= 1
			if i%2 == 0 {
				value |= 1
			}
		}
	}
	return int(value)
}

// closestSymbolValue finds the table entry whose run-width ratios have
// the smallest squared distance to the measured ones.
func closestSymbolValue(runs []int) int {
	total := sumInts(runs)
	ratios := make([]float32, barsInModule)
	if total > 1 {
		for i, length := range runs {
			ratios[i] = float32(length) / float32(total)
		}
	}
	best := -1
	bestError := float32(math.MaxFloat32)
	for i := range symbolRatios {
		var squaredError float32
		for k, ratio := range symbolRatios[i] {
			diff := ratio - ratios[k]
			squaredError += diff * diff
			if squaredError >= bestError {
				break
			}
		}
		if squaredError < bestError {
			bestError = squaredError
			best = symbolTable[i]
		}
	}
	return best
}

// symbolBucket computes the cluster bucket (0, 3 or 6) of a symbol from
// the alternating sum of its bar run lengths.
func symbolBucket(symbol int) int {
	runs := make([]int, barsInModule)
	previous := 0
	i := len(runs) - 1
	for {
		if symbol&1 != previous {
			previous = symbol & 1
			i--
			if i < 0 {
				break
			}
		}
		runs[i]++
		symbol >>= 1
	}
	return (runs[0] - runs[2] + runs[4] - runs[6] + 9) % 9
}

func sumInts(values []int) int {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum
}
