package docs

import (
	"sort"
	"strings"

	"incubator/internal/schema"
)

// FieldsDocName is the download file name for the field reference document.
const FieldsDocName = "详细字段.docx"

// FieldsDoc renders the full field reference: every section, its field labels
// and, for enum fields, the accepted display values.
func FieldsDoc() ([]byte, error) {
	var paragraphs []string
	paragraphs = append(paragraphs, "申请表详细字段说明", "")

	appendSection := func(section schema.Section) {
		paragraphs = append(paragraphs, "【"+section.Title+"】")
		for _, field := range section.Fields {
			line := field.Label
			if len(field.ValueMap) > 0 {
				line += "（可选值：" + joinValues(field.ValueMap) + "）"
			}
			paragraphs = append(paragraphs, line)
		}
		paragraphs = append(paragraphs, "")
	}

	appendSection(schema.LeaderSection)
	appendSection(schema.EnterpriseSection)

	paragraphs = append(paragraphs, "【"+schema.TitleMembers+"】")
	paragraphs = append(paragraphs, strings.Join(schema.MemberHeaders, "、"), "")

	paragraphs = append(paragraphs, "【"+schema.TitleAwards+"】")
	paragraphs = append(paragraphs, strings.Join(schema.AwardHeaders, "、"), "")

	appendSection(schema.IPSection)
	appendSection(schema.QualificationSection)
	appendSection(schema.FinanceSection)

	return encodeParagraphs(paragraphs)
}

func joinValues(valueMap map[string]string) string {
	values := make([]string, 0, len(valueMap))
	for _, display := range valueMap {
		values = append(values, display)
	}
	sort.Strings(values)
	return strings.Join(values, " / ")
}
