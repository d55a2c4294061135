package table

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrEmptyInput is returned by Parse when there is no text to parse. Callers
// treat it as "no table" rather than as a failure.
var ErrEmptyInput = eris.New("table: empty input")

// Separator names the record separator used to split a file into lines.
type Separator string

const (
	// SeparatorCR splits on carriage returns only. This is what the listing
	// exports were produced with; an LF-only file parses as a lone header.
	SeparatorCR Separator = "cr"
	// SeparatorLF splits on line feeds.
	SeparatorLF Separator = "lf"
	// SeparatorCRLF splits on CRLF pairs.
	SeparatorCRLF Separator = "crlf"
	// SeparatorAuto accepts CRLF, CR and LF line endings in the same file.
	SeparatorAuto Separator = "auto"
)

// ParseSeparator validates a separator name from config. Empty means SeparatorCR.
func ParseSeparator(s string) (Separator, error) {
	switch sep := Separator(strings.ToLower(strings.TrimSpace(s))); sep {
	case "":
		return SeparatorCR, nil
	case SeparatorCR, SeparatorLF, SeparatorCRLF, SeparatorAuto:
		return sep, nil
	default:
		return "", eris.Errorf("table: unknown record separator %q", s)
	}
}

// ParseOptions configures Parse.
type ParseOptions struct {
	RecordSeparator Separator // default SeparatorCR
}

var (
	headerCleaner = strings.NewReplacer(`"`, "")
	fieldCleaner  = strings.NewReplacer(`"`, "", "'", "")
)

// Parse turns delimited text into a Table.
//
// The first record is the header: it is split on every comma and each name is
// trimmed and stripped of double quotes. Remaining records are split on commas
// outside double quotes; each field is trimmed and stripped of all single and
// double quotes. Field i is stored under header i. Records shorter than the
// header leave the trailing columns absent.
func Parse(text string, opts ParseOptions) (*Table, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	lines := splitRecords(text, opts.RecordSeparator)

	rawHeader := strings.Split(lines[0], ",")
	header := make([]string, len(rawHeader))
	for i, h := range rawHeader {
		header[i] = cleanHeader(h)
	}

	t := &Table{Columns: uniqueColumns(header)}
	for _, line := range lines[1:] {
		t.Rows = append(t.Rows, buildRow(header, splitQuoted(line)))
	}
	return t, nil
}

// FromRecords builds a Table from records that were already split into fields,
// such as spreadsheet rows. The first record is the header. Cleaning matches Parse.
func FromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = cleanHeader(h)
	}

	t := &Table{Columns: uniqueColumns(header)}
	for _, rec := range records[1:] {
		t.Rows = append(t.Rows, buildRow(header, rec))
	}
	return t, nil
}

func buildRow(header, fields []string) *Row {
	row := NewRow()
	for j, h := range header {
		if j >= len(fields) {
			break
		}
		row.Set(h, S(cleanField(fields[j])))
	}
	return row
}

func cleanHeader(h string) string {
	return headerCleaner.Replace(strings.TrimSpace(h))
}

func cleanField(f string) string {
	return fieldCleaner.Replace(strings.TrimSpace(f))
}

func uniqueColumns(header []string) []string {
	seen := make(map[string]struct{}, len(header))
	out := make([]string, 0, len(header))
	for _, h := range header {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

func splitRecords(text string, sep Separator) []string {
	switch sep {
	case SeparatorLF:
		return strings.Split(text, "\n")
	case SeparatorCRLF:
		return strings.Split(text, "\r\n")
	case SeparatorAuto:
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
		return strings.Split(text, "\n")
	default:
		return strings.Split(text, "\r")
	}
}

// splitQuoted splits line on commas that are followed by an even number of
// double quotes, i.e. commas outside a quoted section. Lines with unbalanced
// quotes split the same way.
func splitQuoted(line string) []string {
	remaining := strings.Count(line, `"`)
	var fields []string
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			remaining--
		case ',':
			if remaining%2 == 0 {
				fields = append(fields, line[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, line[start:])
}
