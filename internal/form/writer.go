package form

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"incubator/internal/schema"
)

const (
	labelColWidth = 30
	valueColWidth = 50

	// Rows reserved under an embedded certificate image.
	imageRowGap = 5
)

// WriteSheet renders the record into a new worksheet of the workbook and
// returns the collision-free sheet name it was stored under. The layout is
// fixed: label in column A, value in column B, bold section titles, member and
// award tables with fixed header rows, certificate images below their blocks.
func WriteSheet(f *excelize.File, record *Record, images Images) (string, error) {
	name := MakeSheetName(f, record.Timestamp())
	if _, err := f.NewSheet(name); err != nil {
		return "", fmt.Errorf("create sheet %q: %w", name, err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return "", fmt.Errorf("title style: %w", err)
	}

	row := 1
	setCell(f, name, row, 1, "提交时间")
	setCell(f, name, row, 2, record.Timestamp())
	row += 2

	writeTitle(f, name, row, schema.TitleLeader, titleStyle)
	row++
	row = writeFields(f, name, row, schema.LeaderSection.Fields, record.Fields)
	row++

	if record.IsEnterprise() {
		writeTitle(f, name, row, schema.TitleEnterprise, titleStyle)
		row++
		row = writeFields(f, name, row, schema.EnterpriseSection.Fields, record.Fields)
		row++

		if images.BusinessLicense != "" {
			setCell(f, name, row, 1, schema.LabelBusinessLicense)
			embedImage(f, name, images.BusinessLicense, row, 2)
			row += imageRowGap
		}
	}

	writeTitle(f, name, row, schema.TitleMembers, titleStyle)
	row++
	for col, header := range schema.MemberHeaders {
		setCell(f, name, row, col+1, header)
	}
	row++
	for i, member := range record.Members {
		setCell(f, name, row, 1, i+1)
		setCell(f, name, row, 2, member.Name)
		setCell(f, name, row, 3, schema.GenderMap[member.Gender])
		setCell(f, name, row, 4, schema.YesNoMap[member.IsStudent])
		setCell(f, name, row, 5, member.College)
		setCell(f, name, row, 6, member.Grade)
		setCell(f, name, row, 7, schema.LevelMap[member.Level])
		setCell(f, name, row, 8, member.Phone)
		setCell(f, name, row, 9, schema.YesNoMap[member.IsOverseas])
		row++
	}
	row++

	writeTitle(f, name, row, schema.TitleAwards, titleStyle)
	row++
	for col, header := range schema.AwardHeaders {
		setCell(f, name, row, col+1, header)
	}
	row++
	for i, award := range record.Awards {
		setCell(f, name, row, 1, i+1)
		setCell(f, name, row, 2, award.Competition)
		setCell(f, name, row, 3, award.Prize)
		if award.ImagePath != "" {
			setCell(f, name, row, 4, "有图片")
		} else {
			setCell(f, name, row, 4, "无")
		}
		row++
	}
	row++

	for i, award := range record.Awards {
		if award.ImagePath == "" {
			continue
		}
		setCell(f, name, row, 1, fmt.Sprintf("获奖记录 %d 证明图片", i+1))
		embedImage(f, name, award.ImagePath, row, 2)
		row += imageRowGap
	}

	writeTitle(f, name, row, schema.TitleIP, titleStyle)
	row++
	row = writeFields(f, name, row, schema.IPSection.Fields, record.Fields)
	row++

	if images.InventionPatent != "" && atoi(record.Fields["inventionPatents"]) > 0 {
		setCell(f, name, row, 1, schema.LabelInventionPatent)
		embedImage(f, name, images.InventionPatent, row, 2)
		row += imageRowGap
	}
	if images.SoftwareCopyright != "" && atoi(record.Fields["softwareCopyrights"]) > 0 {
		setCell(f, name, row, 1, schema.LabelSoftwareCopyright)
		embedImage(f, name, images.SoftwareCopyright, row, 2)
		row += imageRowGap
	}

	writeTitle(f, name, row, schema.TitleQualification, titleStyle)
	row++
	row = writeFields(f, name, row, schema.QualificationSection.Fields, record.Fields)
	row++

	writeTitle(f, name, row, schema.TitleFinance, titleStyle)
	row++
	writeFields(f, name, row, schema.FinanceSection.Fields, record.Fields)

	// Fixed display widths for the label/value columns. Image embedding may
	// have widened column B already; the final value wins, matching a layout
	// where text readability takes priority over image width.
	_ = f.SetColWidth(name, "A", "A", labelColWidth)
	_ = f.SetColWidth(name, "B", "B", valueColWidth)

	return name, nil
}

// writeFields writes one label/value row per field and returns the next free
// row. Enum-mapped values are translated to their display strings.
func writeFields(f *excelize.File, sheet string, row int, fields []schema.Field, values map[string]string) int {
	for _, field := range fields {
		setCell(f, sheet, row, 1, field.Label)
		setCell(f, sheet, row, 2, field.Display(values[field.Key]))
		row++
	}
	return row
}

func writeTitle(f *excelize.File, sheet string, row int, title string, style int) {
	setCell(f, sheet, row, 1, title)
	if cell, err := excelize.CoordinatesToCellName(1, row); err == nil {
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}
}

func setCell(f *excelize.File, sheet string, row, col int, value any) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	_ = f.SetCellValue(sheet, cell, value)
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
