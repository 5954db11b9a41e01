package form

import (
	"github.com/xuri/excelize/v2"

	"incubator/internal/schema"
)

// sheetCursor walks column A of a sheet top to bottom. The row index only ever
// moves forward, which is what makes the label scan tolerant of blank rows,
// section titles and variable-length tables sitting between fields.
type sheetCursor struct {
	rows [][]string
	row  int // 1-based
}

func newSheetCursor(rows [][]string) *sheetCursor {
	// Field scanning starts below the submission-time header.
	return &sheetCursor{rows: rows, row: 3}
}

func (c *sheetCursor) valid() bool {
	return c.row <= len(c.rows)
}

// cell returns the trimmed-at-source value at the cursor's row in the given
// 1-based column. Short rows read as empty cells.
func (c *sheetCursor) cell(col int) string {
	if c.row < 1 || c.row > len(c.rows) {
		return ""
	}
	line := c.rows[c.row-1]
	if col < 1 || col > len(line) {
		return ""
	}
	return line[col-1]
}

// scanField advances until column A equals the label, then returns the
// adjacent column B value. When the sheet ends first the cursor is exhausted
// and the field is reported absent.
func (c *sheetCursor) scanField(label string) (string, bool) {
	for c.valid() {
		if c.cell(1) == label {
			value := c.cell(2)
			c.row++
			return value, true
		}
		c.row++
	}
	return "", false
}

// seekTitle advances until column A equals the section title. It reports
// whether the title was found before the end of the sheet.
func (c *sheetCursor) seekTitle(title string) bool {
	for c.valid() {
		if c.cell(1) == title {
			return true
		}
		c.row++
	}
	return false
}

// ReadSheet reconstructs a submission record from a worksheet written by
// WriteSheet. Every unmatched field is simply omitted; a malformed or
// partially populated sheet yields a partial record, never an error. The
// member table and certificate images are skipped structurally: the read-back
// use case only needs scalar fields and the award competition/prize pairs.
func ReadSheet(f *excelize.File, sheet string) *Record {
	record := &Record{Fields: make(map[string]string)}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return record
	}
	c := newSheetCursor(rows)

	scanInto(c, record, schema.LeaderSection.Fields)

	// The enterprise block exists only for incubated enterprises; for team
	// projects it was never written and the cursor must not chase it.
	if record.IsEnterprise() {
		scanInto(c, record, schema.EnterpriseSection.Fields)
	}

	skipMemberTable(c)
	record.Awards = scanAwards(c)

	scanInto(c, record, schema.IPSection.Fields)
	scanInto(c, record, schema.QualificationSection.Fields)
	scanInto(c, record, schema.FinanceSection.Fields)
	return record
}

func scanInto(c *sheetCursor, record *Record, fields []schema.Field) {
	for _, field := range fields {
		if value, ok := c.scanField(field.Label); ok {
			record.Fields[field.Key] = field.Parse(value)
		}
	}
}

// skipMemberTable jumps over the member section: title row, header row, then
// one row per member until the next recognized section title.
func skipMemberTable(c *sheetCursor) {
	if !c.seekTitle(schema.TitleMembers) {
		return
	}
	c.row += 2
	for c.valid() {
		switch c.cell(1) {
		case schema.TitleIP, schema.TitleAwards:
			return
		}
		c.row++
	}
}

// scanAwards parses the award table: one row per numeric-leading cell in
// column A, terminated by the next recognized section title. The per-award
// certificate images below the table are not needed on read-back and fall
// through the numeric check.
func scanAwards(c *sheetCursor) []Award {
	if !c.seekTitle(schema.TitleAwards) {
		return nil
	}
	c.row += 2
	var awards []Award
	for c.valid() {
		head := c.cell(1)
		switch head {
		case schema.TitleIP, schema.TitleQualification, schema.TitleFinance:
			return awards
		}
		if isDigits(head) {
			awards = append(awards, Award{
				Competition: c.cell(2),
				Prize:       c.cell(3),
			})
		}
		c.row++
	}
	return awards
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
