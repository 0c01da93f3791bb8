package sheet

import "strings"

// ParseRows splits raw CSV text into rows of fields with an explicit
// quote-state scanner. It handles quoted fields containing the delimiter,
// doubled quotes as a literal quote, and newlines embedded inside quoted
// fields. It never fails: malformed quoting degrades to taking characters
// literally once the quote state closes, and blank lines (including the
// usual trailing one) are skipped. Short rows are passed through untouched;
// deciding what to do with them is the mapper's job.
func ParseRows(text string) [][]string {
	var (
		rows     [][]string
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		// a row whose only field is empty is a blank line
		if len(fields) > 1 || fields[0] != "" {
			rows = append(rows, fields)
		}
		fields = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				field.WriteByte(c)
			}
			continue
		}
		switch c {
		case '"':
			inQuotes = true
		case ',':
			endField()
		case '\r':
			// dropped; the row ends at the \n of a CRLF pair
		case '\n':
			endRow()
		default:
			field.WriteByte(c)
		}
	}

	// unterminated last row (no trailing newline)
	if field.Len() > 0 || len(fields) > 0 {
		endRow()
	}

	return rows
}
