package form

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

// StripToSheet removes every worksheet except the named one, turning a loaded
// room workbook into a single-submission download. The caller must not save
// the stripped workbook back over the room's file.
func StripToSheet(f *excelize.File, keep string) error {
	if !sheetExists(f, keep) {
		return ErrSheetNotFound
	}
	for _, name := range f.GetSheetList() {
		if name == keep {
			continue
		}
		if err := f.DeleteSheet(name); err != nil {
			return err
		}
	}
	return nil
}

// WorkbookBytes serializes the workbook for transport.
func WorkbookBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
