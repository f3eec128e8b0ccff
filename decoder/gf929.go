// Package decoder implements the PDF417 barcode decoder.
package decoder

// PDF417 error correction runs in GF(929), the prime field of the
// codeword alphabet, with generator 3. The field never varies, so the
// exp/log tables live at package level.

const fieldSize = 929

var gfExpTable, gfLogTable = buildFieldTables()

func buildFieldTables() ([]int, []int) {
	exp := make([]int, fieldSize)
	log := make([]int, fieldSize)
	x := 1
	for i := range exp {
		exp[i] = x
		x = x * 3 % fieldSize
	}
	for i := 0; i < fieldSize-1; i++ {
		log[exp[i]] = i
	}
	return exp, log
}

func gfAdd(a, b int) int {
	return (a + b) % fieldSize
}

func gfSub(a, b int) int {
	return (fieldSize + a - b) % fieldSize
}

func gfExp(a int) int {
	return gfExpTable[a]
}

func gfLog(a int) int {
	if a == 0 {
		panic("decoder: log of zero")
	}
	return gfLogTable[a]
}

func gfInv(a int) int {
	if a == 0 {
		panic("decoder: inverse of zero")
	}
	return gfExpTable[fieldSize-gfLogTable[a]-1]
}

func gfMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExpTable[(gfLogTable[a]+gfLogTable[b])%(fieldSize-1)]
}

// poly is a polynomial over GF(929), coefficients highest degree first.
// A poly is always normalized: no leading zeros except for the zero
// polynomial itself, which is the single coefficient 0.
type poly []int

func newPoly(coefficients []int) poly {
	if len(coefficients) == 0 {
		panic("decoder: polynomial needs at least one coefficient")
	}
	lead := 0
	for lead < len(coefficients)-1 && coefficients[lead] == 0 {
		lead++
	}
	p := make(poly, len(coefficients)-lead)
	copy(p, coefficients[lead:])
	return p
}

// monomial returns coefficient * x^degree.
func monomial(degree, coefficient int) poly {
	if degree < 0 {
		panic("decoder: negative degree")
	}
	if coefficient == 0 {
		return poly{0}
	}
	p := make(poly, degree+1)
	p[0] = coefficient
	return p
}

func (p poly) degree() int {
	return len(p) - 1
}

func (p poly) isZero() bool {
	return p[0] == 0
}

func (p poly) coeff(degree int) int {
	return p[len(p)-1-degree]
}

func (p poly) evalAt(a int) int {
	switch a {
	case 0:
		return p.coeff(0)
	case 1:
		sum := 0
		for _, c := range p {
			sum = gfAdd(sum, c)
		}
		return sum
	}
	result := p[0]
	for _, c := range p[1:] {
		result = gfAdd(gfMul(a, result), c)
	}
	return result
}

func (p poly) plus(q poly) poly {
	if p.isZero() {
		return q
	}
	if q.isZero() {
		return p
	}
	shorter, longer := p, q
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	sum := make([]int, len(longer))
	pad := len(longer) - len(shorter)
	copy(sum, longer[:pad])
	for i := pad; i < len(longer); i++ {
		sum[i] = gfAdd(shorter[i-pad], longer[i])
	}
	return newPoly(sum)
}

func (p poly) minus(q poly) poly {
	if q.isZero() {
		return p
	}
	return p.plus(q.negated())
}

func (p poly) times(q poly) poly {
	if p.isZero() || q.isZero() {
		return poly{0}
	}
	product := make([]int, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			product[i+j] = gfAdd(product[i+j], gfMul(a, b))
		}
	}
	return newPoly(product)
}

func (p poly) negated() poly {
	out := make(poly, len(p))
	for i, c := range p {
		out[i] = gfSub(0, c)
	}
	return out
}

func (p poly) scaled(scalar int) poly {
	switch scalar {
	case 0:
		return poly{0}
	case 1:
		return p
	}
	out := make(poly, len(p))
	for i, c := range p {
		out[i] = gfMul(c, scalar)
	}
	return out
}

// timesMonomial multiplies by coefficient * x^degree.
func (p poly) timesMonomial(degree, coefficient int) poly {
	if degree < 0 {
		panic("decoder: negative degree")
	}
	if coefficient == 0 {
		return poly{0}
	}
	out := make(poly, len(p)+degree)
	for i, c := range p {
		out[i] = gfMul(c, coefficient)
	}
	return out
}
