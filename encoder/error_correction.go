// Copyright 2011 ZXing authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package encoder

import "fmt"

// ecCoefficients[level] holds the coefficients of the error correction
// generator polynomial for that level, from the constant term upward and
// excluding the leading term. Level l uses 2^(l+1) codewords, so its
// generator is the product of (x - 3^i) for i = 1 .. 2^(l+1) over GF(929).
var ecCoefficients [9][]int

func init() {
	poly := []int{1}
	root := 1
	for level := 0; level <= 8; level++ {
		k := errorCorrectionCodewordCount(level)
		for len(poly)-1 < k {
			root = root * 3 % 929
			next := make([]int, len(poly)+1)
			for i, c := range poly {
				next[i+1] = (next[i+1] + c) % 929
				next[i] = (next[i] + c*(929-root)) % 929
			}
			poly = next
		}
		ecCoefficients[level] = poly[:k]
	}
}

// errorCorrectionCodewordCount returns the number of error correction
// codewords for the given error correction level.
func errorCorrectionCodewordCount(errorCorrectionLevel int) int {
	return 1 << (errorCorrectionLevel + 1)
}

// generateErrorCorrection computes the error correction codewords for the
// given data codewords, in transmission order.
func generateErrorCorrection(dataCodewords []int, errorCorrectionLevel int) ([]int, error) {
	if errorCorrectionLevel < 0 || errorCorrectionLevel > 8 {
		return nil, fmt.Errorf("error correction level must be between 0 and 8, got %d", errorCorrectionLevel)
	}
	k := errorCorrectionCodewordCount(errorCorrectionLevel)
	coefficients := ecCoefficients[errorCorrectionLevel]
	e := make([]int, k)
	for _, d := range dataCodewords {
		t1 := (d + e[k-1]) % 929
		for j := k - 1; j >= 1; j-- {
			t2 := t1 * coefficients[j] % 929
			e[j] = (e[j-1] + 929 - t2) % 929
		}
		t2 := t1 * coefficients[0] % 929
		e[0] = (929 - t2) % 929
	}
	result := make([]int, k)
	for j := 0; j < k; j++ {
		if e[j] != 0 {
			result[k-1-j] = 929 - e[j]
		}
	}
	return result, nil
}
