package dataprocessing

import (
	"encoding/csv"
	"io"
	"strings"
)

// firstMaskRune is where the search for a carriage-return placeholder starts
// (Unicode private use area).
const firstMaskRune = '\uE000'

// parseCSV splits text into rows. Field contents are returned exactly as
// written: a CR LF pair inside a quoted field stays CR LF, and a blank line
// yields an empty row.
func parseCSV(text string) ([][]string, error) {
	masked, mask := maskQuotedCR(text)

	reader := csv.NewReader(strings.NewReader(masked))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	var offset int64
	for {
		for n := blankLineLen(masked[offset:]); n > 0; n = blankLineLen(masked[offset:]) {
			rows = append(rows, []string{})
			offset += int64(n)
		}

		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		offset = reader.InputOffset()

		if mask != 0 {
			for i, field := range record {
				record[i] = strings.ReplaceAll(field, string(mask), "\r")
			}
		}
		rows = append(rows, record)
	}
}

// blankLineLen returns the length of the line terminator s starts with, or 0
func blankLineLen(s string) int {
	switch {
	case strings.HasPrefix(s, "\n"):
		return 1
	case strings.HasPrefix(s, "\r\n"):
		return 2
	}
	return 0
}

// maskQuotedCR replaces the CR of every CR LF inside a quoted field with a
// rune absent from text, so encoding/csv does not fold it into LF. The
// returned mask is 0 when nothing was replaced.
func maskQuotedCR(text string) (string, rune) {
	if !strings.Contains(text, "\r\n") {
		return text, 0
	}

	mask := firstMaskRune
	for strings.ContainsRune(text, mask) {
		mask++
	}

	var sb strings.Builder
	sb.Grow(len(text) + 8)
	replaced := false
	fieldStart, quoted := true, false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if !quoted {
			switch {
			case c == '"' && fieldStart:
				quoted = true
				fieldStart = false
			case c == ',' || c == '\n':
				fieldStart = true
			default:
				fieldStart = false
			}
			sb.WriteByte(c)
			continue
		}

		switch {
		case c == '"' && i+1 < len(text) && text[i+1] == '"':
			sb.WriteString(`""`)
			i++
			continue
		case c == '"' && closesQuote(text[i+1:]):
			quoted = false
		case c == '\r' && i+1 < len(text) && text[i+1] == '\n':
			sb.WriteRune(mask)
			replaced = true
			continue
		}
		sb.WriteByte(c)
	}

	if !replaced {
		return text, 0
	}
	return sb.String(), mask
}

// closesQuote reports whether a quote followed by rest ends a quoted field.
// Any other quote is kept literally, as csv.Reader does with LazyQuotes.
func closesQuote(rest string) bool {
	if rest == "" {
		return true
	}
	return rest[0] == ',' || rest[0] == '\n' || strings.HasPrefix(rest, "\r\n")
}
