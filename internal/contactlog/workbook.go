package contactlog

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// Canonical column schema, established once when the document is created and
// never altered by appends.
var headerRow = []string{"Contact Number", "Email Address", "Message", "DateTime", "ActionTaken", "RowId"}

var columnWidths = []float64{20, 30, 60, 24, 16, 36}

// newWorkbook builds a fresh document containing only the Contacts sheet with
// the canonical header row.
func newWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("contactlog: name sheet: %w", err)
	}
	if err := writeHeader(f); err != nil {
		return nil, err
	}
	return f, nil
}

// openWorkbook parses an existing document, creating the Contacts sheet (with
// header) if an otherwise-valid workbook lacks it.
func openWorkbook(data []byte) (*excelize.File, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("contactlog: parse workbook: %w", err)
	}

	idx, err := f.GetSheetIndex(SheetName)
	if err != nil {
		return nil, fmt.Errorf("contactlog: sheet lookup: %w", err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(SheetName); err != nil {
			return nil, fmt.Errorf("contactlog: create sheet: %w", err)
		}
		if err := writeHeader(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeHeader(f *excelize.File) error {
	header := make([]any, len(headerRow))
	for i, h := range headerRow {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("contactlog: write header: %w", err)
	}
	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("contactlog: column name: %w", err)
		}
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return fmt.Errorf("contactlog: column width: %w", err)
		}
	}
	return nil
}

// appendRecord adds one row after the last occupied row of the Contacts sheet.
func appendRecord(f *excelize.File, rec Record) error {
	rows, err := f.GetRows(SheetName)
	if err != nil {
		return fmt.Errorf("contactlog: read rows: %w", err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("contactlog: row cell: %w", err)
	}
	row := []any{
		rec.ContactNumber,
		rec.EmailAddress,
		rec.Message,
		rec.SubmittedAt.UTC().Format(time.RFC3339),
		rec.ActionTaken,
		rec.RecordID,
	}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("contactlog: write row: %w", err)
	}
	return nil
}

// encodeWorkbook serializes the document to its binary xlsx form.
func encodeWorkbook(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("contactlog: encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
