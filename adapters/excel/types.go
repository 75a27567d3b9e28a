package excel

// RawRowData represents a row of raw Excel data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents the complete Excel dataset
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows keyed by header
	Records [][]string   // Data rows by column index, same order as Rows

	// RowNumbers holds the 1-based sheet row of each record, header included.
	RowNumbers []int
}

func (d *ExcelData) rowNumber(i int) int {
	if i < len(d.RowNumbers) {
		return d.RowNumbers[i]
	}
	return i + 2
}
