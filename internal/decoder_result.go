// Package internal provides shared result types used across the decoding
// pipeline.
package internal

// DecoderResult carries the outcome of decoding a codeword matrix back to
// the reader layer.
type DecoderResult struct {
	Text              string
	RawBytes          []byte
	ECLevel           string
	ErrorsCorrected   int
	Erasures          int
	SymbologyModifier int
	Other             interface{}
}

// NewDecoderResult creates a DecoderResult for the given decoded text and
// error correction level.
func NewDecoderResult(text, ecLevel string) *DecoderResult {
	return &DecoderResult{Text: text, ECLevel: ecLevel}
}
