// Package report reformats the blastn result table into XLSX.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheet = "Sheet1"

// ErrNoRows means the result table held no data rows at all, e.g. a TSV
// of nothing but comment lines. Callers treat it like an empty result.
var ErrNoRows = errors.New("result table holds no data rows")

// ReadTSV loads a tab-delimited result file as rows of columns.
// Empty lines and '#' comment lines (outfmt 7 leftovers) are skipped.
func ReadTSV(tsv_path string) ([][]string, error) {

	f, err := os.Open(tsv_path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var rows [][]string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan TSV: %w", err)
	}

	return rows, nil
}

// WriteXLSX writes a header row followed by the data rows onto one sheet.
func WriteXLSX(xlsx_path string, header []string, rows [][]string) error {

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(xlsx_path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	return nil
}

// Convert reads a TSV and writes the XLSX next to it (same stem). Returns
// the workbook path and how many data rows it holds.
func Convert(tsv_path string, header []string) (string, int, error) {

	rows, err := ReadTSV(tsv_path)
	if err != nil {
		return "", 0, err
	}

	// a header-only workbook would look like a finished job to the
	// batch skip check
	if len(rows) == 0 {
		return "", 0, ErrNoRows
	}

	xlsx_path := strings.TrimSuffix(tsv_path, ".tsv") + ".xlsx"

	if err := WriteXLSX(xlsx_path, header, rows); err != nil {
		return "", 0, err
	}

	return xlsx_path, len(rows), nil
}
