// Copyright 2011 ZXing authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package encoder

// BarcodeMatrix renders a symbol into a flat module buffer, one byte per
// module. Rows are written top first through StartRow/WriteBar and read
// back bottom-up, so row zero of the output is the last row written.
type BarcodeMatrix struct {
	modules []byte
	stride  int
	height  int
	row     int
	col     int
}

// NewBarcodeMatrix creates a matrix for the given number of rows and data
// columns. The stride leaves room for the start/stop patterns and the two
// row indicators around the data region.
func NewBarcodeMatrix(height, width int) *BarcodeMatrix {
	stride := (width+4)*17 + 1
	return &BarcodeMatrix{
		modules: make([]byte, height*stride),
		stride:  stride,
		height:  height,
		row:     -1,
	}
}

// StartRow begins the next row and resets the write position to its left
// edge.
func (bm *BarcodeMatrix) StartRow() {
	bm.row++
	bm.col = 0
}

// WriteBar appends a run of width modules, black or white, at the current
// write position.
func (bm *BarcodeMatrix) WriteBar(black bool, width int) {
	var value byte
	if black {
		value = 1
	}
	base := bm.row * bm.stride
	for i := 0; i < width; i++ {
		bm.modules[base+bm.col] = value
		bm.col++
	}
}

// Matrix returns the unscaled module grid.
func (bm *BarcodeMatrix) Matrix() [][]byte {
	return bm.ScaledMatrix(1, 1)
}

// ScaledMatrix returns the module grid with every module repeated xScale
// times horizontally and yScale times vertically.
func (bm *BarcodeMatrix) ScaledMatrix(xScale, yScale int) [][]byte {
	out := make([][]byte, bm.height*yScale)
	for i := range out {
		src := bm.modules[(i/yScale)*bm.stride : (i/yScale+1)*bm.stride]
		scaled := make([]byte, len(src)*xScale)
		for x := range scaled {
			scaled[x] = src[x/xScale]
		}
		out[len(out)-i-1] = scaled
	}
	return out
}
