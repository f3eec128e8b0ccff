package pdf417go

import "errors"

var (
	// ErrNotFound is returned when no PDF417 barcode is found in the image.
	ErrNotFound = errors.New("barcode not found")

	// ErrChecksum is returned when error correction cannot repair the codewords.
	ErrChecksum = errors.New("checksum error")

	// ErrFormat is returned when the barcode structure is invalid.
	ErrFormat = errors.New("format error")

	// ErrWriter is returned when data cannot be encoded.
	ErrWriter = errors.New("writer error")
)
