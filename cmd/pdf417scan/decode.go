package main

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/binarizer"
	"github.com/ericlevine/pdf417go/decoder"
)

var (
	decodeMulti     bool
	decodeInverted  bool
	decodePure      bool
	decodeTryHarder bool
	decodeMaxSize   int
)

var decodeCmd = &cobra.Command{
	Use:   "decode [files...]",
	Short: "Decode PDF417 barcodes from image files",
	Long: `Decode locates and decodes PDF417 barcodes in the given images.

Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP

Examples:
  pdf417scan decode photo.jpg
  pdf417scan decode --multi --inverted *.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		found := 0
		for _, path := range args {
			results, err := decodeFile(path)
			if err != nil {
				if errors.Is(err, pdf417go.ErrNotFound) {
					slog.Info("no barcode found", "file", path)
					continue
				}
				return fmt.Errorf("%s: %w", path, err)
			}
			for _, result := range results {
				found++
				fmt.Println(result.Text)
				if ec, ok := result.Metadata[pdf417go.MetadataErrorCorrectionLevel]; ok {
					slog.Debug("decoded", "file", path, "ecLevel", ec)
				}
			}
		}
		if found == 0 {
			return pdf417go.ErrNotFound
		}
		return nil
	},
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeMulti, "multi", false,
		"decode all barcodes in each image instead of the first")
	decodeCmd.Flags().BoolVar(&decodeInverted, "inverted", false,
		"also try decoding the image with black and white swapped")
	decodeCmd.Flags().BoolVar(&decodePure, "pure", false,
		"assume the image is a pure barcode with no surrounding scene")
	decodeCmd.Flags().BoolVar(&decodeTryHarder, "try-harder", false,
		"spend more time searching for barcodes")
	decodeCmd.Flags().IntVar(&decodeMaxSize, "max-size", 0,
		"downscale images so the longest side is at most this many pixels (0 disables)")
}

func decodeFile(path string) ([]*pdf417go.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	slog.Debug("loaded image", "file", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	if decodeMaxSize > 0 &&
		(img.Bounds().Dx() > decodeMaxSize || img.Bounds().Dy() > decodeMaxSize) {
		img = imaging.Fit(img, decodeMaxSize, decodeMaxSize, imaging.Lanczos)
		slog.Debug("downscaled image", "file", path,
			"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	}

	source := pdf417go.NewImageLuminanceSource(img)
	opts := &pdf417go.DecodeOptions{
		PureBarcode:  decodePure,
		TryHarder:    decodeTryHarder,
		AlsoInverted: decodeInverted,
	}

	results, err := decodeWithOptions(source, opts)
	if err != nil && !opts.TryHarder {
		harder := *opts
		harder.TryHarder = true
		results, err = decodeWithOptions(source, &harder)
	}
	return results, err
}

func decodeWithOptions(source pdf417go.LuminanceSource, opts *pdf417go.DecodeOptions) ([]*pdf417go.Result, error) {
	// A clean histogram binarization is cheaper and works for most scans;
	// fall back to the local-threshold binarizer for unevenly lit photos.
	results, err := tryDecode(pdf417go.NewBinaryBitmap(binarizer.NewGlobalHistogram(source)), opts)
	if err != nil {
		results, err = tryDecode(pdf417go.NewBinaryBitmap(binarizer.NewHybrid(source)), opts)
	}
	return results, err
}

func tryDecode(bitmap *pdf417go.BinaryBitmap, opts *pdf417go.DecodeOptions) (results []*pdf417go.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("decoder panic: %v", r)
		}
	}()

	reader := decoder.NewReader()
	if decodeMulti {
		return reader.DecodeMultiple(bitmap, opts)
	}
	result, err := reader.Decode(bitmap, opts)
	if err != nil {
		return nil, err
	}
	return []*pdf417go.Result{result}, nil
}
