// Copyright 2006 Jeremias Maerki in part, and ZXing Authors in part.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package encoder

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ericlevine/pdf417go"
)

// Compaction represents possible PDF417 barcode compaction types.
type Compaction int

const (
	// CompactionAuto selects compaction mode automatically.
	CompactionAuto Compaction = iota
	// CompactionText forces text compaction mode.
	CompactionText
	// CompactionByte forces byte compaction mode.
	CompactionByte
	// CompactionNumeric forces numeric compaction mode.
	CompactionNumeric
)

// Compaction mode codewords and the single-byte shift.
const (
	latchText         = 900
	latchBytesPartial = 901
	latchNumeric      = 902
	shiftByte         = 913
	latchBytesFull    = 924
)

// Active compaction mode while auto-encoding.
const (
	modeText = iota
	modeBytes
	modeNumeric
)

// Text compaction sub-modes.
type textSubMode int

const (
	subAlpha textSubMode = iota
	subLower
	subMixed
	subPunct
)

// Half-codeword values shared between sub-modes. The same value means
// different things depending on the sub-mode it appears in.
const (
	halfPunctLatch     = 25
	halfSpace          = 26
	halfLowerLatch     = 27
	halfUpperShift     = 27
	halfMixedLatch     = 28
	halfAlphaLatch     = 28
	halfPunctShift     = 29
	halfAlphaFromPunct = 29
)

// Characters of the mixed and punctuation sub-modes, ordered by their
// half-codeword value. Space sits at value 26 in mixed, past the latch
// value 25, so it gets patched in separately.
const (
	mixedChars = "0123456789&\r\t,:#-.$/+%*=^"
	punctChars = ";<>@[\\]_`~!\r\t,:\n-.$/\"|*()?{}'"
)

var mixedValue = buildValueTable(mixedChars)
var punctValue = buildValueTable(punctChars)

func init() {
	mixedValue[' '] = halfSpace
}

func buildValueTable(chars string) [128]int {
	var table [128]int
	for i := range table {
		table[i] = -1
	}
	for i := 0; i < len(chars); i++ {
		table[chars[i]] = i
	}
	return table
}

// EncodeHighLevel performs high-level encoding of a PDF417 message using the
// algorithm described in annex P of ISO/IEC 15438:2001(E).
// This is a simplified port that does not support ECI or custom charsets.
func EncodeHighLevel(msg string, compaction Compaction) (string, error) {
	if len(msg) == 0 {
		return "", fmt.Errorf("%w: empty message not allowed", pdf417go.ErrWriter)
	}
	if err := checkEncodable(msg, compaction); err != nil {
		return "", err
	}

	var out strings.Builder
	out.Grow(len(msg))

	switch compaction {
	case CompactionText:
		appendText(&out, msg, 0, len(msg), subAlpha)
	case CompactionByte:
		appendBytes(&out, []byte(msg), false)
	case CompactionNumeric:
		out.WriteRune(rune(latchNumeric))
		appendNumeric(&out, msg, 0, len(msg))
	default:
		appendAuto(&out, msg)
	}
	return out.String(), nil
}

// checkEncodable rejects characters the target compaction cannot carry.
// Text compaction is limited to ASCII; byte and auto compaction accept
// anything in the ISO-8859-1 range.
func checkEncodable(msg string, compaction Compaction) error {
	var limit rune
	switch compaction {
	case CompactionText:
		limit = 127
	case CompactionAuto, CompactionByte:
		limit = 255
	default:
		return nil
	}
	for i, ch := range msg {
		if ch > limit {
			return fmt.Errorf("%w: non-encodable character detected: %c (Unicode: %d) at position #%d",
				pdf417go.ErrWriter, ch, ch, i)
		}
	}
	return nil
}

// appendAuto walks the message selecting the cheapest compaction mode per
// run, following the mode switching rules of 4.4.2.1: thirteen or more
// digits latch to numeric, five or more text characters latch to text,
// and anything else goes out as bytes.
func appendAuto(out *strings.Builder, msg string) {
	mode := modeText
	sub := subAlpha
	for p := 0; p < len(msg); {
		digits := digitRunLength(msg, p)
		if digits >= 13 {
			out.WriteRune(rune(latchNumeric))
			mode = modeNumeric
			sub = subAlpha
			appendNumeric(out, msg, p, digits)
			p += digits
			continue
		}

		text := textRunLength(msg, p)
		if text >= 5 || digits == len(msg) {
			if mode != modeText {
				out.WriteRune(rune(latchText))
				mode = modeText
				sub = subAlpha
			}
			sub = appendText(out, msg, p, text, sub)
			p += text
			continue
		}

		binary := binaryRunLength(msg, p)
		if binary == 0 {
			binary = 1
		}
		chunk := []byte(msg[p : p+binary])
		if len(chunk) == 1 && mode == modeText {
			appendBytes(out, chunk, true)
		} else {
			appendBytes(out, chunk, false)
			mode = modeBytes
			sub = subAlpha
		}
		p += binary
	}
}

// appendText encodes count characters starting at start using Text
// Compaction (ISO/IEC 15438:2001(E), 4.4.2). It collects half-codewords
// first and then packs them in pairs, padding an odd tail with a trailing
// punctuation shift. Returns the sub-mode left active.
func appendText(out *strings.Builder, msg string, start, count int, initial textSubMode) textSubMode {
	halves := make([]byte, 0, count)
	sub := initial
	for idx := 0; idx < count; {
		ch := msg[start+idx]
		switch sub {
		case subAlpha:
			switch {
			case isUpper(ch):
				if ch == ' ' {
					halves = append(halves, halfSpace)
				} else {
					halves = append(halves, ch-'A')
				}
			case isLower(ch):
				sub = subLower
				halves = append(halves, halfLowerLatch)
				continue
			case isMixed(ch):
				sub = subMixed
				halves = append(halves, halfMixedLatch)
				continue
			default:
				halves = append(halves, halfPunctShift, byte(punctValue[ch]))
			}

		case subLower:
			switch {
			case isLower(ch):
				if ch == ' ' {
					halves = append(halves, halfSpace)
				} else {
					halves = append(halves, ch-'a')
				}
			case isUpper(ch):
				halves = append(halves, halfUpperShift, ch-'A')
			case isMixed(ch):
				sub = subMixed
				halves = append(halves, halfMixedLatch)
				continue
			default:
				halves = append(halves, halfPunctShift, byte(punctValue[ch]))
			}

		case subMixed:
			switch {
			case isMixed(ch):
				halves = append(halves, byte(mixedValue[ch]))
			case isUpper(ch):
				sub = subAlpha
				halves = append(halves, halfAlphaLatch)
				continue
			case isLower(ch):
				sub = subLower
				halves = append(halves, halfLowerLatch)
				continue
			case start+idx+1 < count && isPunct(msg[start+idx+1]):
				sub = subPunct
				halves = append(halves, halfPunctLatch)
				continue
			default:
				halves = append(halves, halfPunctShift, byte(punctValue[ch]))
			}

		default: // subPunct
			if isPunct(ch) {
				halves = append(halves, byte(punctValue[ch]))
			} else {
				sub = subAlpha
				halves = append(halves, halfAlphaFromPunct)
				continue
			}
		}
		idx++
	}

	for i := 0; i+1 < len(halves); i += 2 {
		out.WriteRune(rune(int(halves[i])*30 + int(halves[i+1])))
	}
	if len(halves)%2 != 0 {
		out.WriteRune(rune(int(halves[len(halves)-1])*30 + halfPunctShift))
	}
	return sub
}

// appendBytes encodes data using Byte Compaction (ISO/IEC 15438:2001(E),
// 4.4.3). A single byte inside text compaction uses the shift codeword;
// otherwise the latch depends on whether the data splits evenly into
// six-byte groups. Each full group becomes five base-900 codewords, the
// remainder one codeword per byte.
func appendBytes(out *strings.Builder, data []byte, fromText bool) {
	switch {
	case len(data) == 1 && fromText:
		out.WriteRune(rune(shiftByte))
	case len(data)%6 == 0:
		out.WriteRune(rune(latchBytesFull))
	default:
		out.WriteRune(rune(latchBytesPartial))
	}

	for len(data) >= 6 {
		var block uint64
		for _, b := range data[:6] {
			block = block<<8 | uint64(b)
		}
		var words [5]rune
		for i := len(words) - 1; i >= 0; i-- {
			words[i] = rune(block % 900)
			block /= 900
		}
		for _, w := range words {
			out.WriteRune(w)
		}
		data = data[6:]
	}
	for _, b := range data {
		out.WriteRune(rune(b))
	}
}

// appendNumeric encodes count digits starting at start using Numeric
// Compaction: groups of up to 44 digits, each prefixed with an implicit
// leading 1 and converted to base 900.
func appendNumeric(out *strings.Builder, msg string, start, count int) {
	base := big.NewInt(900)
	value := new(big.Int)
	rem := new(big.Int)
	for idx := 0; idx < count; {
		length := min(44, count-idx)
		value.SetString("1"+msg[start+idx:start+idx+length], 10)

		words := make([]rune, 0, length/3+1)
		for {
			value.DivMod(value, base, rem)
			words = append(words, rune(rem.Int64()))
			if value.Sign() == 0 {
				break
			}
		}
		for i := len(words) - 1; i >= 0; i-- {
			out.WriteRune(words[i])
		}
		idx += length
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isUpper(ch byte) bool {
	return ch == ' ' || (ch >= 'A' && ch <= 'Z')
}

func isLower(ch byte) bool {
	return ch == ' ' || (ch >= 'a' && ch <= 'z')
}

func isMixed(ch byte) bool {
	return mixedValue[ch] != -1
}

func isPunct(ch byte) bool {
	return punctValue[ch] != -1
}

func isTextByte(ch byte) bool {
	return ch == '\t' || ch == '\n' || ch == '\r' || (ch >= 32 && ch <= 126)
}

// digitRunLength counts consecutive digits from start.
func digitRunLength(msg string, start int) int {
	idx := start
	for idx < len(msg) && isDigit(msg[idx]) {
		idx++
	}
	return idx - start
}

// textRunLength counts consecutive characters from start that text
// compaction can carry. A digit run long enough to latch to numeric
// compaction ends the text run before it.
func textRunLength(msg string, start int) int {
	idx := start
	for idx < len(msg) {
		runStart := idx
		for idx < len(msg) && idx-runStart < 13 && isDigit(msg[idx]) {
			idx++
		}
		if idx-runStart == 13 {
			return runStart - start
		}
		if idx > runStart {
			continue
		}
		if !isTextByte(msg[idx]) {
			break
		}
		idx++
	}
	return idx - start
}

// binaryRunLength counts characters from start until a digit run long
// enough for numeric compaction begins.
func binaryRunLength(msg string, start int) int {
	for idx := start; idx < len(msg); idx++ {
		lookahead := 0
		for idx+lookahead < len(msg) && lookahead < 13 && isDigit(msg[idx+lookahead]) {
			lookahead++
		}
		if lookahead == 13 {
			return idx - start
		}
	}
	return len(msg) - start
}
