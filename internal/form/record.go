// Package form implements the spreadsheet serialization engine: rendering a
// structured submission into a dated worksheet, reading the latest worksheet
// back into form values, naming and resolving worksheets, and merging selected
// worksheets from many room workbooks into one export.
package form

import (
	"net/url"
	"strings"
	"time"

	"incubator/internal/schema"
)

// Member is one row of the project member table.
type Member struct {
	Name       string
	Gender     string
	IsStudent  string
	College    string
	Grade      string
	Level      string
	Phone      string
	IsOverseas string
}

// Award is one row of the competition award table. ImagePath points at a
// staged certificate upload; empty means no proof image.
type Award struct {
	Competition string
	Prize       string
	ImagePath   string
}

// Images collects the staged certificate uploads attached to a submission.
// Any path may be empty; a missing or unreadable file never fails the write.
type Images struct {
	BusinessLicense   string
	InventionPatent   string
	SoftwareCopyright string
}

// Record is the in-memory structured submission. Scalar fields are keyed by
// the schema field keys and hold raw form values; enum translation happens at
// the sheet boundary.
type Record struct {
	SubmittedAt time.Time
	Fields      map[string]string
	Members     []Member
	Awards      []Award
}

// IsEnterprise reports whether the enterprise section applies.
func (r *Record) IsEnterprise() bool {
	return r.Fields["projectType"] == schema.ProjectTypeEnterprise
}

// Timestamp returns the submission time in the fixed layout the sheet naming
// scheme is built on.
func (r *Record) Timestamp() string {
	return r.SubmittedAt.Format(timestampLayout)
}

// ParseSubmission builds a Record from posted form values. Repeated member and
// award inputs use array-style keys; rows are aligned by index and ragged
// trailing values are ignored.
func ParseSubmission(values url.Values, submittedAt time.Time) *Record {
	record := &Record{
		SubmittedAt: submittedAt,
		Fields:      make(map[string]string),
	}
	for key, list := range values {
		if strings.HasSuffix(key, "[]") || len(list) == 0 {
			continue
		}
		record.Fields[key] = list[0]
	}

	names := values["member_name[]"]
	genders := values["member_gender[]"]
	students := values["member_isStudent[]"]
	colleges := values["member_college[]"]
	grades := values["member_grade[]"]
	levels := values["member_level[]"]
	phones := values["member_phone[]"]
	overseas := values["member_isOverseas[]"]
	for i := range names {
		record.Members = append(record.Members, Member{
			Name:       names[i],
			Gender:     pick(genders, i),
			IsStudent:  pick(students, i),
			College:    pick(colleges, i),
			Grade:      pick(grades, i),
			Level:      pick(levels, i),
			Phone:      pick(phones, i),
			IsOverseas: pick(overseas, i),
		})
	}

	competitions := values["award_competition[]"]
	prizes := values["award_prize[]"]
	for i := range competitions {
		record.Awards = append(record.Awards, Award{
			Competition: competitions[i],
			Prize:       pick(prizes, i),
		})
	}
	return record
}

func pick(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}
