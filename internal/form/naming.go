package form

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	sheetNameLayout = "2006-01-02 15-04-05"

	// Worksheet names are capped at 31 characters by the xlsx format.
	maxSheetNameLen = 31

	// Upper bound when probing collision-suffixed names during lookup.
	resolveProbeLimit = 100
)

// ErrSheetNotFound reports that no worksheet matches a requested timestamp.
var ErrSheetNotFound = errors.New("sheet not found")

var collisionSuffixPattern = regexp.MustCompile(`_\d+$`)

// MakeSheetName derives a collision-free worksheet name from a submission
// timestamp. Colons are illegal in worksheet names, so the time portion uses
// hyphens; the name is truncated to 31 characters before uniqueness suffixing,
// and the suffixed result is re-truncated so it never exceeds the cap.
func MakeSheetName(f *excelize.File, timestamp string) string {
	return uniqueSheetName(f, sanitizeSheetName(timestamp))
}

// uniqueSheetName truncates base to the worksheet name cap and appends _1, _2,
// ... while the name is taken. The suffixed result is re-trimmed so it never
// exceeds the cap either.
func uniqueSheetName(f *excelize.File, base string) string {
	if len(base) > maxSheetNameLen {
		base = base[:maxSheetNameLen]
	}
	name := base
	for counter := 1; sheetExists(f, name); counter++ {
		suffix := fmt.Sprintf("_%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > maxSheetNameLen {
			trimmed = trimmed[:maxSheetNameLen-len(suffix)]
		}
		name = trimmed + suffix
	}
	return name
}

// ResolveSheetName maps a timestamp back to the worksheet holding it. The base
// name is recomputed the same way the writer derived it; when an earlier
// submission claimed the base name, the collision-suffixed variants are probed
// in order.
func ResolveSheetName(f *excelize.File, timestamp string) (string, error) {
	base := sanitizeSheetName(timestamp)
	if sheetExists(f, base) {
		return base, nil
	}
	for counter := 1; counter <= resolveProbeLimit; counter++ {
		candidate := fmt.Sprintf("%s_%d", base, counter)
		if sheetExists(f, candidate) {
			return candidate, nil
		}
	}
	return "", ErrSheetNotFound
}

// SheetEntry pairs a worksheet with the submission timestamp its name encodes.
type SheetEntry struct {
	Timestamp string `json:"timestamp"`
	SheetName string `json:"sheet_name"`
}

// ListEntries reverses every worksheet name in the workbook back to its
// original timestamp, most recent first. Placeholder sheets left behind by
// workbook creation are skipped. A trailing _<digits> collision suffix is
// stripped at most once, so two submissions in the same second report the same
// timestamp twice.
func ListEntries(f *excelize.File) []SheetEntry {
	var out []SheetEntry
	for _, name := range f.GetSheetList() {
		if isPlaceholderSheet(name) {
			continue
		}
		out = append(out, SheetEntry{Timestamp: TimestampFromSheetName(name), SheetName: name})
	}
	// Lexicographic descending is chronological descending for the fixed
	// zero-padded layout.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		// Same-second submissions differ only in collision suffix; the
		// higher suffix is the later write.
		return out[i].SheetName > out[j].SheetName
	})
	return out
}

// ListTimestamps returns just the timestamps, most recent first.
func ListTimestamps(f *excelize.File) []string {
	entries := ListEntries(f)
	out := make([]string, len(entries))
	for i, entry := range entries {
		out[i] = entry.Timestamp
	}
	return out
}

// LatestSheet returns the name of the most recent submission sheet.
func LatestSheet(f *excelize.File) (string, bool) {
	entries := ListEntries(f)
	if len(entries) == 0 {
		return "", false
	}
	return entries[0].SheetName, true
}

// TimestampFromSheetName undoes MakeSheetName for a single worksheet: the
// collision suffix is removed and the time-portion hyphens become colons
// again. Names that do not parse as timestamps are returned suffix-stripped
// but otherwise untouched.
func TimestampFromSheetName(name string) string {
	stripped := collisionSuffixPattern.ReplaceAllString(name, "")
	if ts, err := time.Parse(sheetNameLayout, stripped); err == nil {
		return ts.Format(timestampLayout)
	}
	return stripped
}

func sanitizeSheetName(timestamp string) string {
	name := strings.ReplaceAll(timestamp, ":", "-")
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	return name
}

func sheetExists(f *excelize.File, name string) bool {
	idx, err := f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

func isPlaceholderSheet(name string) bool {
	// openpyxl-era workbooks carry "Sheet"; excelize-created ones "Sheet1".
	return name == "Sheet" || name == "Sheet1"
}
