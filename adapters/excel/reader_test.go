package excel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dsemotion/domain/core"
	"dsemotion/domain/feature"
	"dsemotion/domain/frame"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// measurementExport mimics the tracker exports: second, four unused columns, then
// fob lea lbd rea rbd hnc vnc lcw rcw ma.
const measurementExport = `sec;frame;x;y;z;fob;lea;lbd;rea;rbd;hnc;vnc;lcw;rcw;ma
0;0;a;b;c;1;2;3;4;5;6;7;8;9;10
1;25;a;b;c;11;12;13;14;15;16;17;18;19;20

2;50;a;b;c;0,5;1;1;1;1;1;1;1;1;1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPositionalCSV(t *testing.T) {
	config := DefaultExcelConfig()
	config.FilePath = writeFile(t, "export.csv", measurementExport)

	reader := NewDataReader(config)
	assert.Equal(t, "export.csv", reader.Name())

	frames, err := reader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, frames, 3, "blank lines are skipped")

	first := frames[0]
	assert.Equal(t, int64(0), first.Timestamp)
	assert.Equal(t, 1.0, first.Values[feature.BrowFurrowing])
	assert.Equal(t, 2.0, first.Values[feature.LeftEyeAperture])
	assert.Equal(t, 3.0, first.Values[feature.LeftBrowDistance])
	assert.Equal(t, 4.0, first.Values[feature.RightEyeAperture])
	assert.Equal(t, 10.0, first.Values[feature.MouthAperture])
	require.NoError(t, first.Validate())

	assert.Equal(t, 0.5, frames[2].Values[feature.BrowFurrowing], "decimal comma")
}

func TestLoadHeaderCSV(t *testing.T) {
	content := "ma,rcw,lcw,vnc,hnc,rbd,lbd,rea,lea,fob,note,SEC\n" +
		"10,9,8,7,6,5,4,3,2,1,ignored,7\n"
	config := DefaultExcelConfig()
	config.FilePath = writeFile(t, "header.csv", content)
	config.Delimiter = ','
	config.Layout = LayoutHeader

	frames, err := NewDataReader(config).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, int64(7), frames[0].Timestamp)
	assert.Equal(t, 1.0, frames[0].Values[feature.BrowFurrowing])
	assert.Equal(t, 3.0, frames[0].Values[feature.RightEyeAperture])
	assert.Equal(t, 10.0, frames[0].Values[feature.MouthAperture])
}

func TestLoadHeaderCSVMissingFeature(t *testing.T) {
	config := DefaultExcelConfig()
	config.FilePath = writeFile(t, "short.csv", "sec;fob;lea\n1;2;3\n")
	config.Layout = LayoutHeader

	_, err := NewDataReader(config).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rea")
}

func TestLoadRejectsBadCells(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"non numeric value", "h\n0;0;a;b;c;1;2;3;4;5;6;7;8;9;x\n", "row 2"},
		{"short row", "h\n0;0;a;b;c;1;2;3;4;5;6;7;8;9;1\n1;0;a;b;c;1;2\n", "row 3"},
		{"fractional second", "h\n0.5;0;a;b;c;1;2;3;4;5;6;7;8;9;1\n", "whole number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultExcelConfig()
			config.FilePath = writeFile(t, "bad.csv", tt.content)

			_, err := NewDataReader(config).Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidFrame)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFileAndEmptyFile(t *testing.T) {
	config := DefaultExcelConfig()
	config.FilePath = filepath.Join(t.TempDir(), "nope.csv")
	_, err := NewDataReader(config).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	config.FilePath = writeFile(t, "empty.csv", "sec;fob\n")
	_, err = NewDataReader(config).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least a header row")
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")
	f := excelize.NewFile()
	sheet := "Measurements"
	idx, err := f.NewSheet(sheet)
	require.NoError(t, err)
	f.SetActiveSheet(idx)
	require.NoError(t, f.DeleteSheet("Sheet1"))

	header := []interface{}{"sec", "fob", "lea", "rea", "lbd", "rbd", "hnc", "vnc", "lcw", "rcw", "ma"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i := 0; i < 3; i++ {
		row := []interface{}{i}
		for j := 0; j < feature.Count; j++ {
			row = append(row, float64(i*10+j)+0.25)
		}
		require.NoError(t, f.SetSheetRow(sheet, "A"+string(rune('2'+i)), &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	config := DefaultExcelConfig()
	config.FilePath = path
	config.Layout = LayoutHeader

	frames, err := NewDataReader(config).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, int64(2), frames[2].Timestamp)
	assert.Equal(t, 20.25, frames[2].Values[feature.BrowFurrowing])
	assert.Equal(t, 29.25, frames[2].Values[feature.MouthAperture])

	config.Sheet = "Missing"
	_, err = NewDataReader(config).Load(context.Background())
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	config := DefaultExcelConfig()
	assert.Error(t, config.Validate(), "file path is required")

	config.FilePath = "x.csv"
	assert.NoError(t, config.Validate())

	config.Delimiter = '"'
	assert.Error(t, config.Validate())

	config = DefaultExcelConfig()
	config.FilePath = "x.csv"
	config.Columns.Features[feature.MouthAperture] = 5
	err := config.Validate()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "fob") && strings.Contains(err.Error(), "ma"))

	layout, err := ParseLayout(" Header ")
	require.NoError(t, err)
	assert.Equal(t, LayoutHeader, layout)
	_, err = ParseLayout("columns")
	assert.Error(t, err)
}

func TestWriteCSVReadsBackInBothLayouts(t *testing.T) {
	frames := []frame.Frame{
		frame.New(3, [feature.Count]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}),
		frame.New(4, [feature.Count]float64{0.125, 0, -1, 1e6, 5, 6, 7, 8, 9, 10}),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, frames, ';'))
	path := writeFile(t, "generated.csv", buf.String())

	for _, layout := range []Layout{LayoutPositional, LayoutHeader} {
		config := DefaultExcelConfig()
		config.FilePath = path
		config.Layout = layout

		got, err := NewDataReader(config).Load(context.Background())
		require.NoError(t, err, layout)
		assert.Equal(t, frames, got, layout)
	}

	bad := []frame.Frame{{Timestamp: 1, Values: map[feature.Feature]float64{}}}
	assert.Error(t, WriteCSV(&buf, bad, ';'))
}
