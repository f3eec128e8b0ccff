package pdf417go

// Symbology constants for PDF417.
const (
	NumberOfCodewords     = 929
	MaxCodewordsInBarcode = 928
	MinRowsInBarcode      = 3
	MaxRowsInBarcode      = 90
	MaxColumnsInBarcode   = 30
	ModulesInCodeword     = 17
	ModulesInStopPattern  = 18
	BarsInModule          = 8
)
