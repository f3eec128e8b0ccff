package decoder

import "github.com/ericlevine/pdf417go"

// correctErrors repairs received in place using its trailing numEC error
// correction codewords and returns how many positions were corrected.
// The erasure positions are already reflected in the caller's correction
// budget; the decoder itself rediscovers all error locations.
func correctErrors(received []int, numEC int, erasures []int) (int, error) {
	word := newPoly(received)
	syndromes := make([]int, numEC)
	clean := true
	for i := numEC; i > 0; i-- {
		s := word.evalAt(gfExp(i))
		syndromes[numEC-i] = s
		if s != 0 {
			clean = false
		}
	}
	if clean {
		return 0, nil
	}

	sigma, omega, err := solveKeyEquation(monomial(numEC, 1), newPoly(syndromes), numEC)
	if err != nil {
		return 0, err
	}
	locations, err := findErrorLocations(sigma)
	if err != nil {
		return 0, err
	}
	magnitudes := findErrorMagnitudes(omega, sigma, locations)

	for i, loc := range locations {
		position := len(received) - 1 - gfLog(loc)
		if position < 0 {
			return 0, pdf417go.ErrChecksum
		}
		received[position] = gfSub(received[position], magnitudes[i])
	}
	return len(locations), nil
}

// solveKeyEquation runs the extended Euclidean algorithm on a and b until
// the remainder degree drops below limit/2, yielding the error locator
// sigma and error evaluator omega.
func solveKeyEquation(a, b poly, limit int) (sigma, omega poly, err error) {
	if a.degree() < b.degree() {
		a, b = b, a
	}

	rPrev, r := a, b
	tPrev, t := poly{0}, poly{1}

	for r.degree() >= limit/2 {
		rBefore, tBefore := rPrev, tPrev
		rPrev, tPrev = r, t
		if rPrev.isZero() {
			return nil, nil, pdf417go.ErrChecksum
		}

		r = rBefore
		q := poly{0}
		leadInverse := gfInv(rPrev.coeff(rPrev.degree()))
		for r.degree() >= rPrev.degree() && !r.isZero() {
			shift := r.degree() - rPrev.degree()
			scale := gfMul(r.coeff(r.degree()), leadInverse)
			q = q.plus(monomial(shift, scale))
			r = r.minus(rPrev.timesMonomial(shift, scale))
		}
		t = q.times(tPrev).minus(tBefore).negated()
	}

	constant := t.coeff(0)
	if constant == 0 {
		return nil, nil, pdf417go.ErrChecksum
	}
	inverse := gfInv(constant)
	return t.scaled(inverse), r.scaled(inverse), nil
}

// findErrorLocations evaluates the locator over the whole field, Chien
// search style. Finding fewer roots than the locator degree means the
// errors exceed what the codewords can correct.
func findErrorLocations(locator poly) ([]int, error) {
	want := locator.degree()
	locations := make([]int, 0, want)
	for i := 1; i < fieldSize && len(locations) < want; i++ {
		if locator.evalAt(i) == 0 {
			locations = append(locations, gfInv(i))
		}
	}
	if len(locations) != want {
		return nil, pdf417go.ErrChecksum
	}
	return locations, nil
}

// findErrorMagnitudes applies Forney's formula at each error location.
func findErrorMagnitudes(evaluator, locator poly, locations []int) []int {
	degree := locator.degree()
	if degree < 1 {
		return []int{}
	}
	derivative := make([]int, degree)
	for i := 1; i <= degree; i++ {
		derivative[degree-i] = gfMul(i, locator.coeff(i))
	}
	locatorPrime := newPoly(derivative)

	magnitudes := make([]int, len(locations))
	for i, loc := range locations {
		xi := gfInv(loc)
		numerator := gfSub(0, evaluator.evalAt(xi))
		denominator := gfInv(locatorPrime.evalAt(xi))
		magnitudes[i] = gfMul(numerator, denominator)
	}
	return magnitudes
}
