package sheet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"
)

// Writer appends rows to an xlsx workbook. A new workbook gets Header on row 1;
// an existing one is appended to below the last used row of its active sheet.
type Writer struct {
	Path      string
	Header    []string
	SheetName string // title for the sheet of a newly created workbook; optional
}

func (w Writer) Append(rows [][]any) error {
	f, created, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if created && w.SheetName != "" && w.SheetName != sheet {
		if err := f.SetSheetName(sheet, w.SheetName); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
		sheet = w.SheetName
	}

	existing, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}
	next := len(existing) + 1

	// an empty active sheet is treated like a fresh workbook
	if next == 1 && len(w.Header) > 0 {
		header := make([]any, len(w.Header))
		for i, h := range w.Header {
			header[i] = h
		}
		if err := setRow(f, sheet, next, header); err != nil {
			return err
		}
		next++
	}

	for _, r := range rows {
		if err := setRow(f, sheet, next, r); err != nil {
			return err
		}
		next++
	}

	if created {
		err = f.SaveAs(w.Path)
	} else {
		err = f.Save()
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", w.Path, err)
	}
	return nil
}

func (w Writer) open() (*excelize.File, bool, error) {
	_, err := os.Stat(w.Path)
	switch {
	case err == nil:
		f, err := excelize.OpenFile(w.Path)
		if err != nil {
			return nil, false, fmt.Errorf("open file: %w", err)
		}
		return f, false, nil
	case errors.Is(err, fs.ErrNotExist):
		return excelize.NewFile(), true, nil
	default:
		return nil, false, fmt.Errorf("stat %s: %w", w.Path, err)
	}
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

// ReadRows returns every row of the active sheet.
func ReadRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, fmt.Errorf("no active sheet")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

// ActiveSheet returns the name of the active sheet.
func ActiveSheet(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return f.GetSheetName(f.GetActiveSheetIndex()), nil
}
