// Package sheet appends parameter records to an xlsx run log.
package sheet

import (
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/prisms-tools/prm"
)

// ErrSchemaMismatch is returned when an existing spreadsheet carries columns
// the new record does not provide.
var ErrSchemaMismatch = errors.New("spreadsheet schema mismatch")

// Append adds rec as a row of the sheet named label in the workbook at path.
// A missing workbook is created with a header row; a missing sheet in an
// existing workbook is created likewise. For an existing sheet the stored
// header must be a subset of the record's columns, and the row is written
// after the last stored row, aligned to the stored header order.
func Append(path, label string, rec prm.Record) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return create(path, label, rec)
	} else if err != nil {
		return fmt.Errorf("failed to stat spreadsheet: %w", err)
	}
	return appendRow(path, label, rec)
}

func create(path, label string, rec prm.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", label); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeRow(f, label, 1, rec.Header()); err != nil {
		return err
	}
	if err := writeRow(f, label, 2, rec.Row()); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

func appendRow(path, label string, rec prm.Record) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(label)
	if err != nil {
		return fmt.Errorf("failed to look up sheet %q: %w", label, err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(label); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", label, err)
		}
		if err := writeRow(f, label, 1, rec.Header()); err != nil {
			return err
		}
	}

	rows, err := f.GetRows(label)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", label, err)
	}

	header := rec.Header()
	if len(rows) > 0 {
		header = rows[0]
	}
	if missing := missingColumns(header, rec); len(missing) > 0 {
		return fmt.Errorf("%w: existing columns %v not present in record", ErrSchemaMismatch, missing)
	}

	if err := writeRow(f, label, len(rows)+1, alignRow(header, rec)); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

// missingColumns reports the stored header columns the record cannot fill.
func missingColumns(header []string, rec prm.Record) []string {
	have := make(map[string]bool, len(rec.Columns)+3)
	for _, col := range rec.Header() {
		have[col] = true
	}
	var missing []string
	for _, col := range header {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// alignRow orders the record's cells by the stored header. Record columns
// beyond the stored header are dropped for this workbook.
func alignRow(header []string, rec prm.Record) []string {
	byName := map[string]string{
		"calculation":  rec.Calculation,
		"description":  rec.Description,
		"observations": rec.Observations,
	}
	for col, v := range rec.Values {
		byName[col] = v
	}
	row := make([]string, len(header))
	for i, col := range header {
		row[i] = byName[col]
	}
	return row
}

func writeRow(f *excelize.File, label string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(label, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
