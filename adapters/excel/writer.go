package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"dsemotion/domain/feature"
	"dsemotion/domain/frame"
)

// WriteCSV writes frames in the measurement export layout: DefaultColumns positions
// with feature codes and "sec" in the header, so either layout reads the file back.
func WriteCSV(w io.Writer, frames []frame.Frame, delimiter rune) error {
	columns := DefaultColumns()
	width := columns.Timestamp + 1
	for _, idx := range columns.Features {
		width = max(width, idx+1)
	}

	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	header := make([]string, width)
	for i := range header {
		header[i] = fmt.Sprintf("c%d", i)
	}
	header[columns.Timestamp] = "sec"
	for _, ft := range feature.All {
		header[columns.Features[ft]] = ft.Code()
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, width)
	for _, f := range frames {
		for i := range record {
			record[i] = ""
		}
		record[columns.Timestamp] = strconv.FormatInt(f.Timestamp, 10)
		for _, ft := range feature.All {
			v, ok := f.Values[ft]
			if !ok {
				return fmt.Errorf("frame %ds has no %s value", f.Timestamp, ft.Code())
			}
			record[columns.Features[ft]] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
