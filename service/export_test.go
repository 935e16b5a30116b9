package service

import (
	"bytes"
	"testing"

	"github.com/candrapwr/information-extraction/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf, []string{"name", "nik"}, []ExportRow{
		{File: "a.png", Data: utils.Result{"name": "BUDI SANTOSO", "nik": "3174012345678901"}},
		{File: "b.png", Data: utils.Result{"name": "SITI"}},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Results"}, f.GetSheetList())
	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"file", "name", "nik"},
		{"a.png", "BUDI SANTOSO", "3174012345678901"},
		{"b.png", "SITI", utils.NotFound},
	}, rows)

	width, err := f.GetColWidth("Results", "A")
	require.NoError(t, err)
	assert.Equal(t, float64(fileColumnWidth), width)
}
