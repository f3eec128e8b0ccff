package decoder

import "github.com/ericlevine/pdf417go"

// Symbology limits, mirrored locally from the root package.
const (
	barsInModule          = pdf417go.BarsInModule
	modulesInCodeword     = pdf417go.ModulesInCodeword
	numberOfCodewords     = pdf417go.NumberOfCodewords
	maxCodewordsInBarcode = pdf417go.MaxCodewordsInBarcode
	minRowsInBarcode      = pdf417go.MinRowsInBarcode
	maxRowsInBarcode      = pdf417go.MaxRowsInBarcode
)

// symbolTable is the shared bar/space pattern table, sorted ascending.
var symbolTable = pdf417go.SymbolTable

func getCodeword(symbol int) int {
	return pdf417go.GetCodeword(symbol)
}
