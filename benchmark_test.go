package pdf417go_test

import (
	"strings"
	"testing"

	"github.com/ericlevine/pdf417go"
	"github.com/ericlevine/pdf417go/binarizer"
	"github.com/ericlevine/pdf417go/decoder"
	"github.com/ericlevine/pdf417go/encoder"
)

var encodeBenchmarks = []struct {
	name    string
	content string
}{
	{"Short", "Hello PDF417"},
	{"Numeric", "31415926535897932384626433832795"},
	{"Long", strings.Repeat("The quick brown fox jumps over the lazy dog. ", 10)},
}

func BenchmarkEncode(b *testing.B) {
	writer := encoder.NewPDF417Writer()
	for _, tc := range encodeBenchmarks {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := writer.Encode(tc.content, 600, 300, nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	for _, tc := range encodeBenchmarks {
		b.Run(tc.name, func(b *testing.B) {
			matrix, err := encoder.NewPDF417Writer().Encode(tc.content, 600, 300, nil)
			if err != nil {
				b.Fatal(err)
			}
			img := pdf417go.BitMatrixToImage(matrix)
			reader := decoder.NewReader()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				// Fresh binarizer and bitmap each iteration since both cache.
				source := pdf417go.NewGrayImageLuminanceSource(img)
				bitmap := pdf417go.NewBinaryBitmap(binarizer.NewHybrid(source))
				if _, err := reader.Decode(bitmap, nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
