package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dsemotion/domain/core"
	"dsemotion/domain/feature"
	"dsemotion/domain/frame"
	"dsemotion/ports"

	"github.com/xuri/excelize/v2"
)

// DataReader reads measurement frames from Excel and CSV files
type DataReader struct {
	config   ExcelConfig
	fileType string // "xlsx" or "csv"
}

var _ ports.FrameSource = (*DataReader)(nil)

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ExcelConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	fileType := "xlsx"
	if ext == ".csv" || ext == ".txt" {
		fileType = "csv"
	}
	return &DataReader{config: config, fileType: fileType}
}

// Name identifies the file on stored runs.
func (r *DataReader) Name() string {
	return filepath.Base(r.config.FilePath)
}

// Load reads the whole file and converts it into frames.
func (r *DataReader) Load(ctx context.Context) ([]frame.Frame, error) {
	if err := r.config.Validate(); err != nil {
		return nil, fmt.Errorf("excel config: %w", err)
	}
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Frames(data)
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.config.FilePath)

	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.config.FilePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcelData reads the configured sheet (or the first one) into structured format
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	log.Printf("[DataReader] Sheet %s read in %.2fms (%d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = r.config.Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	records := make([][]string, 0, len(rows)-1)
	rowNumbers := make([]int, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}

		record := make([]string, len(row))
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			record[j] = strings.TrimSpace(cell)
			if j < len(headers) {
				rowData[headers[j]] = record[j]
			}
		}
		dataRows = append(dataRows, rowData)
		records = append(records, record)
		rowNumbers = append(rowNumbers, i+1)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers:    headers,
		Rows:       dataRows,
		Records:    records,
		RowNumbers: rowNumbers,
	}, nil
}

// Frames converts raw rows into frames using the configured layout
func (r *DataReader) Frames(data *ExcelData) ([]frame.Frame, error) {
	columns := r.config.Columns
	if r.config.Layout == LayoutHeader {
		var err error
		if columns, err = r.resolveHeaderColumns(data.Headers); err != nil {
			return nil, err
		}
	}

	frames := make([]frame.Frame, 0, len(data.Records))
	for i, record := range data.Records {
		f, err := recordToFrame(record, columns, data.rowNumber(i))
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// resolveHeaderColumns finds the timestamp and feature columns by header name
func (r *DataReader) resolveHeaderColumns(headers []string) (Columns, error) {
	columns := Columns{Timestamp: -1, Features: make(map[feature.Feature]int, feature.Count)}
	for i, header := range headers {
		if strings.EqualFold(header, r.config.TimestampHeader) {
			columns.Timestamp = i
			continue
		}
		ft, err := feature.Parse(header)
		if err != nil {
			continue // extra columns are allowed
		}
		if prev, dup := columns.Features[ft]; dup {
			return Columns{}, fmt.Errorf("feature %s appears in columns %d and %d", ft.Code(), prev+1, i+1)
		}
		columns.Features[ft] = i
	}

	if columns.Timestamp < 0 {
		return Columns{}, fmt.Errorf("no %q column in header", r.config.TimestampHeader)
	}
	var missing []string
	for _, ft := range feature.All {
		if _, ok := columns.Features[ft]; !ok {
			missing = append(missing, ft.Code())
		}
	}
	if len(missing) > 0 {
		return Columns{}, fmt.Errorf("header is missing feature columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func recordToFrame(record []string, columns Columns, row int) (frame.Frame, error) {
	cell := func(idx int) (string, error) {
		if idx >= len(record) || record[idx] == "" {
			return "", core.NewInvalidRowError(row, fmt.Sprintf("column %d is empty", idx+1))
		}
		return record[idx], nil
	}

	raw, err := cell(columns.Timestamp)
	if err != nil {
		return frame.Frame{}, err
	}
	ts, err := parseSecond(raw)
	if err != nil {
		return frame.Frame{}, core.NewInvalidRowError(row, err.Error())
	}

	values := make(map[feature.Feature]float64, feature.Count)
	for _, ft := range feature.All {
		raw, err := cell(columns.Features[ft])
		if err != nil {
			return frame.Frame{}, err
		}
		v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return frame.Frame{}, core.NewInvalidRowError(row, fmt.Sprintf("%s value %q is not a finite number", ft.Code(), raw))
		}
		values[ft] = v
	}
	return frame.Frame{Timestamp: ts, Values: values}, nil
}

// parseSecond accepts integral seconds, also when a spreadsheet stored them as "12.0".
func parseSecond(raw string) (int64, error) {
	if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ts, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("timestamp %q is not a whole number of seconds", raw)
	}
	return int64(v), nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
