package dataprocessing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "donorpulse/internal/errors"
)

func TestDecodeCSV(t *testing.T) {
	t.Run("header plus rows", func(t *testing.T) {
		input := "First Name,Last Name,Amount,Date\nJane,Doe,100,2024-03-15\nBob,Lee,25,2024-01-02\n"

		rows, err := Decode(strings.NewReader(input), "donations.csv")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Jane", rows[0]["First Name"])
		assert.Equal(t, "100", rows[0]["Amount"])
	})

	t.Run("ragged rows are kept", func(t *testing.T) {
		input := "first_name,last_name,amount\nJane,Doe,100\nBob,Lee\n"

		rows, err := Decode(strings.NewReader(input), "donations.csv")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		_, hasAmount := rows[1]["amount"]
		assert.False(t, hasAmount)
	})

	t.Run("blank rows are dropped", func(t *testing.T) {
		input := "first_name,last_name\nJane,Doe\n,\n"

		rows, err := Decode(strings.NewReader(input), "donations.csv")
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("header only", func(t *testing.T) {
		rows, err := Decode(strings.NewReader("first_name,last_name\n"), "donations.csv")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("empty file", func(t *testing.T) {
		rows, err := Decode(strings.NewReader(""), "donations.csv")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("extension is case insensitive", func(t *testing.T) {
		_, err := Decode(strings.NewReader("a,b\n1,2\n"), "DONATIONS.CSV")
		assert.NoError(t, err)
	})
}

func TestDecodeExcel(t *testing.T) {
	buildWorkbook := func(t *testing.T, rows [][]interface{}) *bytes.Buffer {
		t.Helper()
		f := excelize.NewFile()
		defer f.Close()
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
		}
		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf))
		return &buf
	}

	t.Run("first sheet rows", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{
			{"First Name", "Last Name", "Amount"},
			{"Jane", "Doe", 100},
			{"Bob", "Lee", 25},
		})

		rows, err := Decode(buf, "donations.xlsx")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Jane", rows[0]["First Name"])
	})

	t.Run("corrupt workbook", func(t *testing.T) {
		_, err := Decode(strings.NewReader("not a workbook"), "donations.xlsx")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	})
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	_, err := Decode(strings.NewReader("{}"), "donations.json")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	assert.Contains(t, err.Error(), "unsupported file format")
}
