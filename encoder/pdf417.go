// Copyright 2011 ZXing authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package encoder

import (
	"fmt"
	"math"

	"github.com/ericlevine/pdf417go"
)

const (
	startPattern = 0x1fea8
	stopPattern  = 0x3fa29

	// Module width and row height in millimetres, and the width to height
	// ratio determineDimensions aims for.
	defaultModuleWidth = 0.357
	heightRatio        = 2.0
	preferredRatio     = 3.0

	padCodeword = 900
)

// Encoder generates the bar matrix for a PDF417 symbol.
type Encoder struct {
	compact    bool
	compaction Compaction
	minCols    int
	maxCols    int
	minRows    int
	maxRows    int
	matrix     *BarcodeMatrix
}

// NewEncoder creates an Encoder with default dimensions (2-30 columns,
// 2-30 rows) and automatic compaction.
func NewEncoder() *Encoder {
	return &Encoder{
		compaction: CompactionAuto,
		minCols:    2,
		maxCols:    30,
		minRows:    2,
		maxRows:    30,
	}
}

// SetCompact enables or disables compact (truncated) mode.
func (e *Encoder) SetCompact(compact bool) {
	e.compact = compact
}

// SetCompaction sets the compaction mode.
func (e *Encoder) SetCompaction(compaction Compaction) {
	e.compaction = compaction
}

// SetDimensions sets the bounds on the number of data columns and rows.
func (e *Encoder) SetDimensions(maxCols, minCols, maxRows, minRows int) {
	e.maxCols = maxCols
	e.minCols = minCols
	e.maxRows = maxRows
	e.minRows = minRows
}

// BarcodeMatrix returns the matrix generated by GenerateBarcodeLogic.
func (e *Encoder) BarcodeMatrix() *BarcodeMatrix {
	return e.matrix
}

// GenerateBarcodeLogic encodes the message and renders the full symbol,
// including row indicators, error correction, and start/stop patterns.
func (e *Encoder) GenerateBarcodeLogic(msg string, errorCorrectionLevel int) error {
	if errorCorrectionLevel < 0 || errorCorrectionLevel > 8 {
		return fmt.Errorf("%w: error correction level must be between 0 and 8, got %d",
			pdf417go.ErrWriter, errorCorrectionLevel)
	}
	errorCorrectionCodewords := errorCorrectionCodewordCount(errorCorrectionLevel)

	highLevel, err := EncodeHighLevel(msg, e.compaction)
	if err != nil {
		return err
	}
	sourceCodewords := len([]rune(highLevel))

	cols, rows, err := e.determineDimensions(sourceCodewords, errorCorrectionCodewords)
	if err != nil {
		return err
	}

	pad := numberOfPadCodewords(sourceCodewords, errorCorrectionCodewords, cols, rows)
	if sourceCodewords+errorCorrectionCodewords+1 > pdf417go.NumberOfCodewords {
		return fmt.Errorf("%w: encoded message contains too many codewords, message is too big (%d bytes)",
			pdf417go.ErrWriter, len(msg))
	}

	n := sourceCodewords + pad + 1
	dataCodewords := make([]int, 0, n)
	dataCodewords = append(dataCodewords, n)
	for _, r := range highLevel {
		dataCodewords = append(dataCodewords, int(r))
	}
	for i := 0; i < pad; i++ {
		dataCodewords = append(dataCodewords, padCodeword)
	}

	ec, err := generateErrorCorrection(dataCodewords, errorCorrectionLevel)
	if err != nil {
		return err
	}
	fullCodewords := append(dataCodewords, ec...)

	e.matrix = NewBarcodeMatrix(rows, cols)
	if e.compact {
		// Compact rows end after the data columns with a one-module stop bar.
		e.matrix.stride = (cols+2)*pdf417go.ModulesInCodeword + 1
	}
	e.encodeLowLevel(fullCodewords, cols, rows, errorCorrectionLevel)
	return nil
}

// encodeLowLevel renders codewords row by row, synthesizing the left and
// right row indicator values from the row count, column count, and error
// correction level.
func (e *Encoder) encodeLowLevel(fullCodewords []int, c, r, errorCorrectionLevel int) {
	idx := 0
	for y := 0; y < r; y++ {
		cluster := y % 3
		e.matrix.StartRow()
		encodeChar(startPattern, pdf417go.ModulesInCodeword, e.matrix)

		var left, right int
		switch cluster {
		case 0:
			left = (30 * (y / 3)) + ((r - 1) / 3)
			right = (30 * (y / 3)) + (c - 1)
		case 1:
			left = (30 * (y / 3)) + (errorCorrectionLevel * 3) + ((r - 1) % 3)
			right = (30 * (y / 3)) + ((r - 1) / 3)
		default:
			left = (30 * (y / 3)) + (c - 1)
			right = (30 * (y / 3)) + (errorCorrectionLevel * 3) + ((r - 1) % 3)
		}

		encodeChar(pdf417go.CodewordPattern(cluster*3, left), pdf417go.ModulesInCodeword, e.matrix)

		for x := 0; x < c; x++ {
			encodeChar(pdf417go.CodewordPattern(cluster*3, fullCodewords[idx]), pdf417go.ModulesInCodeword, e.matrix)
			idx++
		}

		if e.compact {
			encodeChar(stopPattern, 1, e.matrix)
		} else {
			encodeChar(pdf417go.CodewordPattern(cluster*3, right), pdf417go.ModulesInCodeword, e.matrix)
			encodeChar(stopPattern, pdf417go.ModulesInStopPattern, e.matrix)
		}
	}
}

// encodeChar writes a bar/space pattern of the given length in modules to
// the matrix, most significant bit first, collapsing same-color bits into
// single runs.
func encodeChar(pattern, length int, m *BarcodeMatrix) {
	maskBit := 1 << (length - 1)
	last := pattern&maskBit != 0
	width := 0
	for i := 0; i < length; i++ {
		black := pattern&maskBit != 0
		if last == black {
			width++
		} else {
			m.WriteBar(last, width)
			last = black
			width = 1
		}
		maskBit >>= 1
	}
	m.WriteBar(last, width)
}

// determineDimensions picks the column and row counts that fit the data
// while staying closest to the preferred aspect ratio.
func (e *Encoder) determineDimensions(sourceCodewords, errorCorrectionCodewords int) (int, int, error) {
	ratio := 0.0
	cols, rows := 0, 0
	found := false
	for c := e.minCols; c <= e.maxCols; c++ {
		r := calculateNumberOfRows(sourceCodewords, errorCorrectionCodewords, c)
		if r < e.minRows {
			break
		}
		if r > e.maxRows {
			continue
		}
		newRatio := float64(17*c+69) * defaultModuleWidth / (float64(r) * heightRatio)
		if found && math.Abs(newRatio-preferredRatio) > math.Abs(ratio-preferredRatio) {
			continue
		}
		ratio = newRatio
		cols, rows = c, r
		found = true
	}
	// Handle tiny messages that fit in fewer rows than allowed.
	if !found {
		r := calculateNumberOfRows(sourceCodewords, errorCorrectionCodewords, e.minCols)
		if r < e.minRows {
			cols, rows = e.minCols, e.minRows
			found = true
		}
	}
	if !found {
		return 0, 0, fmt.Errorf("%w: unable to fit message in columns", pdf417go.ErrWriter)
	}
	return cols, rows, nil
}

func calculateNumberOfRows(sourceCodewords, errorCorrectionCodewords, cols int) int {
	rows := (sourceCodewords + 1 + errorCorrectionCodewords) / cols
	if (sourceCodewords+1+errorCorrectionCodewords)%cols > 0 {
		rows++
	}
	return rows
}

func numberOfPadCodewords(sourceCodewords, errorCorrectionCodewords, cols, rows int) int {
	pad := cols*rows - errorCorrectionCodewords - sourceCodewords - 1
	if pad < 0 {
		return 0
	}
	return pad
}
