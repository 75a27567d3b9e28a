package excel

import (
	"fmt"
	"strings"

	"dsemotion/domain/feature"
)

// Layout selects how columns map to frame fields.
type Layout string

const (
	// LayoutHeader finds columns by header name: the timestamp column and one column
	// per feature code (or feature name).
	LayoutHeader Layout = "header"
	// LayoutPositional reads fixed column indexes and ignores header names.
	LayoutPositional Layout = "positional"
)

// ParseLayout accepts "header" or "positional" (any case).
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case LayoutHeader, LayoutPositional:
		return l, nil
	default:
		return "", fmt.Errorf("unknown column layout %q (want header or positional)", s)
	}
}

// Columns are 0-based column indexes for the positional layout.
type Columns struct {
	Timestamp int
	Features  map[feature.Feature]int
}

// DefaultColumns is the layout of the facial measurement exports: the second in column
// 0, four unused columns, then the ten measurements with the left brow distance ahead
// of the right eye aperture.
func DefaultColumns() Columns {
	return Columns{
		Timestamp: 0,
		Features: map[feature.Feature]int{
			feature.BrowFurrowing:          5,
			feature.LeftEyeAperture:        6,
			feature.LeftBrowDistance:       7,
			feature.RightEyeAperture:       8,
			feature.RightBrowDistance:      9,
			feature.HorizontalNoseCrinkles: 10,
			feature.VerticalNoseCrinkles:   11,
			feature.LeftCheekWrinkle:       12,
			feature.RightCheekWrinkle:      13,
			feature.MouthAperture:          14,
		},
	}
}

// Validate checks that every feature has a distinct, non-negative column.
func (c Columns) Validate() error {
	if c.Timestamp < 0 {
		return fmt.Errorf("timestamp column %d is negative", c.Timestamp)
	}
	used := map[int]string{c.Timestamp: "timestamp"}
	for _, ft := range feature.All {
		idx, ok := c.Features[ft]
		if !ok {
			return fmt.Errorf("no column for feature %s", ft.Code())
		}
		if idx < 0 {
			return fmt.Errorf("column %d for feature %s is negative", idx, ft.Code())
		}
		if other, dup := used[idx]; dup {
			return fmt.Errorf("column %d used by both %s and %s", idx, other, ft.Code())
		}
		used[idx] = ft.Code()
	}
	return nil
}

// ExcelConfig holds configuration for an Excel or CSV frame source
type ExcelConfig struct {
	FilePath        string  `json:"file_path"`
	Sheet           string  `json:"sheet"`     // xlsx only; empty means the first sheet
	Delimiter       rune    `json:"delimiter"` // csv only
	Layout          Layout  `json:"layout"`
	TimestampHeader string  `json:"timestamp_header"` // header layout only
	Columns         Columns `json:"-"`                // positional layout only
}

// DefaultExcelConfig returns the settings that read the measurement exports as-is:
// semicolon-delimited, positional columns, one header row.
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		Delimiter:       ';',
		Layout:          LayoutPositional,
		TimestampHeader: "sec",
		Columns:         DefaultColumns(),
	}
}

// Validate checks the configuration before any file is opened.
func (c ExcelConfig) Validate() error {
	if strings.TrimSpace(c.FilePath) == "" {
		return fmt.Errorf("file path is required")
	}
	switch c.Layout {
	case LayoutHeader:
		if strings.TrimSpace(c.TimestampHeader) == "" {
			return fmt.Errorf("timestamp header is required for the header layout")
		}
	case LayoutPositional:
		if err := c.Columns.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown column layout %q", c.Layout)
	}
	if c.Delimiter == 0 || c.Delimiter == '\n' || c.Delimiter == '\r' || c.Delimiter == '"' {
		return fmt.Errorf("invalid csv delimiter %q", c.Delimiter)
	}
	return nil
}
