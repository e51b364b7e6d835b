package tabular

// ReaderConfig holds configuration for reading a tabular file
type ReaderConfig struct {
	Path string `json:"path"`

	// Encoding names the character set of CSV input. The source dataset
	// historically ships as Latin-1, so that is the default rather than
	// UTF-8. Supported: utf-8, latin-1 (iso-8859-1), windows-1252 (cp1252).
	Encoding string `json:"encoding"`

	// Sheet is the worksheet read from XLSX files
	Sheet string `json:"sheet"`

	// TrimCells strips surrounding whitespace from every cell
	TrimCells bool `json:"trim_cells"`
}

// DefaultReaderConfig returns sensible defaults for tabular input
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Encoding:  "latin-1",
		Sheet:     "Sheet1",
		TrimCells: true,
	}
}
