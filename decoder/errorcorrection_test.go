package decoder

import "testing"

// appendErrorCorrection returns data followed by the error correction
// codewords computed over GF(929) for the given generator degree.
func appendErrorCorrection(data []int, numECCodewords int) []int {
	coefficients := make([]int, numECCodewords+1)
	coefficients[0] = 1
	root := 1
	for i := 0; i < numECCodewords; i++ {
		root = root * 3 % 929
		next := make([]int, numECCodewords+1)
		for j, c := range coefficients[:i+1] {
			next[j+1] = (next[j+1] + c) % 929
			next[j] = (next[j] + c*(929-root)) % 929
		}
		coefficients = next
	}

	ec := make([]int, numECCodewords)
	for _, d := range data {
		t1 := (d + ec[numECCodewords-1]) % 929
		for j := numECCodewords - 1; j >= 1; j-- {
			t2 := t1 * coefficients[j] % 929
			ec[j] = (ec[j-1] + 929 - t2) % 929
		}
		t2 := t1 * coefficients[0] % 929
		ec[0] = (929 - t2) % 929
	}

	out := append([]int{}, data...)
	for j := numECCodewords - 1; j >= 0; j-- {
		if ec[j] != 0 {
			out = append(out, 929-ec[j])
		} else {
			out = append(out, 0)
		}
	}
	return out
}

var ecTestData = []int{14, 453, 178, 902, 1, 278, 827, 900, 295, 902, 2, 326, 823}

func TestErrorCorrectionNoErrors(t *testing.T) {
	received := appendErrorCorrection(ecTestData, 8)
	want := append([]int{}, received...)

	corrected, err := correctErrors(received, 8, nil)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if corrected != 0 {
		t.Errorf("corrected %d codewords on a clean sequence", corrected)
	}
	for i, v := range received {
		if v != want[i] {
			t.Fatalf("codeword %d changed from %d to %d", i, want[i], v)
		}
	}
}

func TestErrorCorrectionCorrectsErrors(t *testing.T) {
	clean := appendErrorCorrection(ecTestData, 8)

	received := append([]int{}, clean...)
	received[2] = (received[2] + 17) % 929
	received[7] = (received[7] + 900) % 929
	received[10] = (received[10] + 1) % 929

	corrected, err := correctErrors(received, 8, nil)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if corrected != 3 {
		t.Errorf("corrected = %d, want 3", corrected)
	}
	for i, v := range received {
		if v != clean[i] {
			t.Fatalf("codeword %d is %d after correction, want %d", i, v, clean[i])
		}
	}
}

func TestErrorCorrectionCorrectsErasures(t *testing.T) {
	clean := appendErrorCorrection(ecTestData, 8)

	received := append([]int{}, clean...)
	received[1] = 0
	received[5] = 0
	erasures := []int{1, 5}

	if _, err := correctErrors(received, 8, erasures); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	for i, v := range received {
		if v != clean[i] {
			t.Fatalf("codeword %d is %d after correction, want %d", i, v, clean[i])
		}
	}
}

func TestErrorCorrectionTooManyErrors(t *testing.T) {
	received := appendErrorCorrection(ecTestData, 4)
	for i := 0; i < 5; i++ {
		received[i] = (received[i] + 100 + i) % 929
	}

	if _, err := correctErrors(received, 4, nil); err == nil {
		t.Error("expected checksum error for unrecoverable sequence")
	}
}
