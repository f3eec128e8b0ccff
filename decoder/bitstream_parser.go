package decoder

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/internal"
)

// Mode latch, shift and macro marker codewords.
const (
	latchText       = 900
	latchBytes      = 901
	latchNumeric    = 902
	latchBytesMult6 = 924
	shiftToByte     = 913
	eciUser         = 925
	eciGeneral      = 926
	eciCharset      = 927
	macroBegin      = 928
	macroOptional   = 923
	macroTerminator = 922

	maxNumericCodewords = 15
	sequenceCodewords   = 2
)

// Macro optional field designators.
const (
	macroFieldFileName     = 0
	macroFieldSegmentCount = 1
	macroFieldTimestamp    = 2
	macroFieldSender       = 3
	macroFieldAddressee    = 4
	macroFieldFileSize     = 5
	macroFieldChecksum     = 6
)

// Text compaction sub-modes.
type textMode int

const (
	modeAlpha textMode = iota
	modeLower
	modeMixed
	modePunct
	modeAlphaShift
	modePunctShift
)

// Sub-mode switch values. Several values switch to different modes
// depending on the current one.
const (
	punctLatch      = 25
	lowerLatch      = 27
	alphaShiftKey   = 27
	mixedLatch      = 28
	alphaLatch      = 28
	punctShiftKey   = 29
	punctAlphaLatch = 29
)

var punctTable = []byte(";<>@[\\]_`~!\r\t,:\n-.$/\"|*()?{}'")
var mixedTable = []byte("0123456789&\r\t,:#-.$/+%*=^")

// exp900 holds the powers of 900 numeric compaction works in.
var exp900 = buildExp900()

func buildExp900() [16]*big.Int {
	var table [16]*big.Int
	table[0] = big.NewInt(1)
	for i := 1; i < len(table); i++ {
		table[i] = new(big.Int).Mul(table[i-1], big.NewInt(900))
	}
	return table
}

// PDF417ResultMetadata holds the control block of a macro PDF417 symbol,
// which links the segments of a multi-barcode payload together.
type PDF417ResultMetadata struct {
	SegmentIndex int
	FileID       string
	OptionalData []int
	LastSegment  bool
	SegmentCount int
	FileName     string
	Sender       string
	Addressee    string
	Timestamp    int64
	FileSize     int64
	Checksum     int
}

// codewordStream reads a codeword slice up to its declared length, which
// slot 0 carries.
type codewordStream struct {
	words []int
	pos   int
}

func (s *codewordStream) declared() int {
	return s.words[0]
}

func (s *codewordStream) more() bool {
	return s.pos < s.words[0]
}

func (s *codewordStream) peek() int {
	return s.words[s.pos]
}

func (s *codewordStream) next() int {
	c := s.words[s.pos]
	s.pos++
	return c
}

func (s *codewordStream) skip() {
	s.pos++
}

func (s *codewordStream) unread() {
	s.pos--
}

func (s *codewordStream) rewind(n int) {
	s.pos -= n
}

// decodeBitStream expands a corrected codeword stream into text, starting
// in text compaction and dispatching on mode latches from there.
func decodeBitStream(codewords []int, ecLevel string) (*internal.DecoderResult, error) {
	var text strings.Builder
	text.Grow(len(codewords) * 2)

	s := &codewordStream{words: codewords, pos: 1}
	if err := s.textCompaction(&text); err != nil {
		return nil, err
	}
	meta := &PDF417ResultMetadata{}
	for s.more() {
		var err error
		switch code := s.next(); code {
		case latchText:
			err = s.textCompaction(&text)
		case latchBytes, latchBytesMult6:
			s.byteCompaction(code, &text)
		case shiftToByte:
			text.WriteByte(byte(s.next()))
		case latchNumeric:
			err = s.numericCompaction(&text)
		case eciCharset:
			s.skip()
		case eciGeneral:
			s.skip()
			s.skip()
		case eciUser:
			s.skip()
		case macroBegin:
			err = s.macroBlock(meta)
		case macroOptional, macroTerminator:
			// Macro markers are only valid inside a control block.
			err = pdf417go.ErrFormat
		default:
			// No latch at all; some symbols omit the leading text latch.
			s.unread()
			err = s.textCompaction(&text)
		}
		if err != nil {
			return nil, err
		}
	}
	if text.Len() == 0 && meta.FileID == "" {
		return nil, pdf417go.ErrFormat
	}
	result := internal.NewDecoderResult(text.String(), ecLevel)
	result.Other = meta
	return result, nil
}

// textCompaction buffers codeword halves until another mode latches, then
// expands them through the sub-mode state machine. The parallel byte
// buffer carries values of embedded single-byte shifts.
func (s *codewordStream) textCompaction(out *strings.Builder) error {
	halves, bytes := s.textBuffers()
	index := 0
	mode := modeAlpha
	end := false
	for s.more() && !end {
		code := s.next()
		if code < latchText {
			halves[index] = code / 30
			halves[index+1] = code % 30
			index += 2
			continue
		}
		switch code {
		case latchText:
			halves[index] = latchText
			index++
		case latchBytes, latchBytesMult6, latchNumeric, macroBegin, macroOptional, macroTerminator:
			s.unread()
			end = true
		case shiftToByte:
			halves[index] = shiftToByte
			bytes[index] = s.next()
			index++
		case eciCharset:
			mode = expandText(halves, bytes, index, out, mode)
			s.skip()
			if s.pos > s.declared() {
				return pdf417go.ErrFormat
			}
			halves, bytes = s.textBuffers()
			index = 0
		}
	}
	expandText(halves, bytes, index, out, mode)
	return nil
}

func (s *codewordStream) textBuffers() ([]int, []int) {
	size := (s.declared() - s.pos) * 2
	if size < 0 {
		size = 0
	}
	return make([]int, size), make([]int, size)
}

// textState tracks the current and latched text sub-modes. Shifts apply
// to a single character and then fall back to the mode they interrupted.
type textState struct {
	mode        textMode
	latched     textMode
	beforeShift textMode
}

func (st *textState) latch(m textMode) {
	st.mode = m
	st.latched = m
}

func (st *textState) shift(m textMode) {
	st.beforeShift = st.mode
	st.mode = m
}

func expandText(halves, bytes []int, length int, out *strings.Builder, start textMode) textMode {
	st := textState{mode: start, latched: start, beforeShift: start}
	for i := 0; i < length; i++ {
		st.expand(halves[i], bytes[i], out)
	}
	return st.latched
}

func (st *textState) expand(value, byteValue int, out *strings.Builder) {
	var ch byte
	switch st.mode {
	case modeAlpha:
		switch {
		case value < 26:
			ch = 'A' + byte(value)
		case value == 26:
			ch = ' '
		case value == lowerLatch:
			st.latch(modeLower)
		case value == mixedLatch:
			st.latch(modeMixed)
		case value == punctShiftKey:
			st.shift(modePunctShift)
		case value == shiftToByte:
			out.WriteByte(byte(byteValue))
		case value == latchText:
			st.latch(modeAlpha)
		}

	case modeLower:
		switch {
		case value < 26:
			ch = 'a' + byte(value)
		case value == 26:
			ch = ' '
		case value == alphaShiftKey:
			st.shift(modeAlphaShift)
		case value == mixedLatch:
			st.latch(modeMixed)
		case value == punctShiftKey:
			st.shift(modePunctShift)
		case value == shiftToByte:
			out.WriteByte(byte(byteValue))
		case value == latchText:
			st.latch(modeAlpha)
		}

	case modeMixed:
		switch {
		case value < punctLatch:
			ch = mixedTable[value]
		case value == punctLatch:
			st.latch(modePunct)
		case value == 26:
			ch = ' '
		case value == lowerLatch:
			st.latch(modeLower)
		case value == alphaLatch, value == latchText:
			st.latch(modeAlpha)
		case value == punctShiftKey:
			st.shift(modePunctShift)
		case value == shiftToByte:
			out.WriteByte(byte(byteValue))
		}

	case modePunct:
		switch {
		case value < punctAlphaLatch:
			ch = punctTable[value]
		case value == punctAlphaLatch, value == latchText:
			st.latch(modeAlpha)
		case value == shiftToByte:
			out.WriteByte(byte(byteValue))
		}

	case modeAlphaShift:
		st.mode = st.beforeShift
		switch {
		case value < 26:
			ch = 'A' + byte(value)
		case value == 26:
			ch = ' '
		case value == latchText:
			st.mode = modeAlpha
		}

	case modePunctShift:
		st.mode = st.beforeShift
		switch {
		case value < punctAlphaLatch:
			ch = punctTable[value]
		case value == punctAlphaLatch, value == latchText:
			st.mode = modeAlpha
		case value == shiftToByte:
			out.WriteByte(byte(byteValue))
		}
	}
	if ch != 0 {
		out.WriteByte(ch)
	}
}

// byteCompaction expands byte compaction data. Full blocks of five
// codewords carry six bytes base 900; a trailing partial block carries
// one byte per codeword.
func (s *codewordStream) byteCompaction(mode int, out *strings.Builder) {
	for s.more() {
		for s.more() && s.peek() == eciCharset {
			s.skip()
			s.skip()
		}
		if !s.more() || s.peek() >= latchText {
			return
		}

		var value int64
		count := 0
		for {
			value = 900*value + int64(s.next())
			count++
			if count >= 5 || !s.more() || s.peek() >= latchText {
				break
			}
		}
		if count == 5 && (mode == latchBytesMult6 || (s.more() && s.peek() < latchText)) {
			for i := 5; i >= 0; i-- {
				out.WriteByte(byte(value >> uint(8*i)))
			}
			continue
		}

		// Partial block: reread it one byte per codeword.
		s.rewind(count)
		for s.more() {
			code := s.next()
			switch {
			case code < latchText:
				out.WriteByte(byte(code))
			case code == eciCharset:
				s.skip()
			default:
				s.unread()
				return
			}
		}
	}
}

// numericCompaction expands groups of up to 15 codewords, each group one
// base 900 number.
func (s *codewordStream) numericCompaction(out *strings.Builder) error {
	digits := make([]int, maxNumericCodewords)
	count := 0
	end := false
	for s.more() && !end {
		code := s.next()
		if !s.more() {
			end = true
		}
		if code < latchText {
			digits[count] = code
			count++
		} else {
			switch code {
			case latchText, latchBytes, latchBytesMult6, macroBegin, macroOptional, macroTerminator, eciCharset:
				s.unread()
				end = true
			}
		}
		if (count%maxNumericCodewords == 0 || code == latchNumeric || end) && count > 0 {
			text, err := base900String(digits, count)
			if err != nil {
				return err
			}
			out.WriteString(text)
			count = 0
		}
	}
	return nil
}

func (s *codewordStream) numericField() (string, error) {
	var b strings.Builder
	if err := s.numericCompaction(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *codewordStream) textField() (string, error) {
	var b strings.Builder
	if err := s.textCompaction(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// macroBlock parses a macro control block: segment index, file ID, then
// any optional fields up to the terminator.
func (s *codewordStream) macroBlock(meta *PDF417ResultMetadata) error {
	if s.pos+sequenceCodewords > s.declared() {
		return pdf417go.ErrFormat
	}
	sequence := make([]int, sequenceCodewords)
	for i := range sequence {
		sequence[i] = s.next()
	}
	index, err := base900String(sequence, sequenceCodewords)
	if err != nil {
		return err
	}
	if index == "" {
		meta.SegmentIndex = 0
	} else {
		meta.SegmentIndex, err = strconv.Atoi(index)
		if err != nil {
			return pdf417go.ErrFormat
		}
	}

	// The file ID codewords are rendered as decimal numbers, zero-filled
	// to width 3.
	var fileID strings.Builder
	for s.more() && s.pos < len(s.words) && s.peek() != macroTerminator && s.peek() != macroOptional {
		fmt.Fprintf(&fileID, "%03d", s.next())
	}
	if fileID.Len() == 0 {
		return pdf417go.ErrFormat
	}
	meta.FileID = fileID.String()

	optionalStart := -1
	if s.pos < len(s.words) && s.peek() == macroOptional {
		optionalStart = s.pos + 1
	}

	for s.more() {
		switch s.peek() {
		case macroOptional:
			s.skip()
			if err := s.macroField(s.next(), meta); err != nil {
				return err
			}
		case macroTerminator:
			s.skip()
			meta.LastSegment = true
		default:
			return pdf417go.ErrFormat
		}
	}

	if optionalStart != -1 {
		length := s.pos - optionalStart
		if meta.LastSegment {
			length--
		}
		if length > 0 {
			meta.OptionalData = append([]int(nil), s.words[optionalStart:optionalStart+length]...)
		}
	}
	return nil
}

func (s *codewordStream) macroField(field int, meta *PDF417ResultMetadata) error {
	switch field {
	case macroFieldFileName:
		name, err := s.textField()
		if err != nil {
			return err
		}
		meta.FileName = name
	case macroFieldSender:
		sender, err := s.textField()
		if err != nil {
			return err
		}
		meta.Sender = sender
	case macroFieldAddressee:
		addressee, err := s.textField()
		if err != nil {
			return err
		}
		meta.Addressee = addressee
	case macroFieldSegmentCount:
		count, err := s.numericField()
		if err != nil {
			return err
		}
		meta.SegmentCount, err = strconv.Atoi(count)
		if err != nil {
			return pdf417go.ErrFormat
		}
	case macroFieldTimestamp:
		stamp, err := s.numericField()
		if err != nil {
			return err
		}
		meta.Timestamp, err = strconv.ParseInt(stamp, 10, 64)
		if err != nil {
			return pdf417go.ErrFormat
		}
	case macroFieldFileSize:
		size, err := s.numericField()
		if err != nil {
			return err
		}
		meta.FileSize, err = strconv.ParseInt(size, 10, 64)
		if err != nil {
			return pdf417go.ErrFormat
		}
	case macroFieldChecksum:
		sum, err := s.numericField()
		if err != nil {
			return err
		}
		meta.Checksum, err = strconv.Atoi(sum)
		if err != nil {
			return pdf417go.ErrFormat
		}
	default:
		return pdf417go.ErrFormat
	}
	return nil
}

// base900String converts count base 900 codewords to the decimal string
// they encode. The leading digit is always an implicit 1 marking the
// number's width.
func base900String(codewords []int, count int) (string, error) {
	sum := new(big.Int)
	for i := 0; i < count; i++ {
		term := new(big.Int).Mul(exp900[count-i-1], big.NewInt(int64(codewords[i])))
		sum.Add(sum, term)
	}
	digits := sum.String()
	if len(digits) == 0 || digits[0] != '1' {
		return "", pdf417go.ErrFormat
	}
	return digits[1:], nil
}
