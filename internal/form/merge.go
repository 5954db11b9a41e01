package form

import (
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"
)

// Selection identifies one worksheet of one room's workbook.
type Selection struct {
	Room      string
	SheetName string
}

// WorkbookSource opens a room's workbook for reading. Image extraction needs
// full drawing access, so sources hand out regular (not streaming) files.
type WorkbookSource interface {
	OpenRoom(room string) (*excelize.File, error)
}

// Merge assembles the selected worksheets into a single new workbook: cell
// values in row order, embedded images at their original anchors, column
// widths and row heights. Sheets land under room_<room>_<sheet> names,
// truncated and collision-suffixed like submission sheets. A missing workbook
// or worksheet skips that selection; one bad source never aborts the batch.
// Exactly one source workbook is held open at a time.
func Merge(selections []Selection, source WorkbookSource) (*excelize.File, error) {
	target := excelize.NewFile()
	copied := 0
	for _, sel := range selections {
		if sel.Room == "" || sel.SheetName == "" {
			continue
		}
		if err := mergeOne(target, sel, source); err != nil {
			log.Printf("batch merge: room %s sheet %q skipped: %v", sel.Room, sel.SheetName, err)
			continue
		}
		copied++
	}
	if copied > 0 {
		// Drop the placeholder sheet the new workbook started with.
		_ = target.DeleteSheet("Sheet1")
	}
	return target, nil
}

func mergeOne(target *excelize.File, sel Selection, source WorkbookSource) error {
	src, err := source.OpenRoom(sel.Room)
	if err != nil {
		return err
	}
	defer src.Close()

	if !sheetExists(src, sel.SheetName) {
		return ErrSheetNotFound
	}

	name := uniqueSheetName(target, fmt.Sprintf("room_%s_%s", sel.Room, sel.SheetName))
	if _, err := target.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	rows, err := src.GetRows(sel.SheetName)
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}
	for r, line := range rows {
		for col, value := range line {
			if value == "" {
				continue
			}
			setCell(target, name, r+1, col+1, value)
		}
	}

	if err := copySheetImages(src, target, sel.SheetName, name); err != nil {
		return fmt.Errorf("copy images: %w", err)
	}
	copyDimensions(src, target, sel.SheetName, name, rows)
	return nil
}

// copyDimensions mirrors column widths and row heights over the used range.
// Unset columns and rows read back as the format defaults, which copy through
// without visible effect.
func copyDimensions(src, target *excelize.File, srcSheet, dstSheet string, rows [][]string) {
	maxCols := 0
	for _, line := range rows {
		if len(line) > maxCols {
			maxCols = len(line)
		}
	}
	for col := 1; col <= maxCols; col++ {
		colName, err := excelize.ColumnNumberToName(col)
		if err != nil {
			continue
		}
		if width, err := src.GetColWidth(srcSheet, colName); err == nil {
			_ = target.SetColWidth(dstSheet, colName, colName, width)
		}
	}
	for r := 1; r <= len(rows); r++ {
		if height, err := src.GetRowHeight(srcSheet, r); err == nil {
			_ = target.SetRowHeight(dstSheet, r, height)
		}
	}
}
