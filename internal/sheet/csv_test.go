package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRows_QuotedDelimiter(t *testing.T) {
	rows := ParseRows("\"Dupont, Jean\",42\n")

	assert.Equal(t, [][]string{{"Dupont, Jean", "42"}}, rows)
}

func TestParseRows_DoubledQuote(t *testing.T) {
	rows := ParseRows("\"He said \"\"bonjour\"\"\",ok\n")

	assert.Equal(t, [][]string{{`He said "bonjour"`, "ok"}}, rows)
}

func TestParseRows_EmbeddedNewline(t *testing.T) {
	rows := ParseRows("CMD-1,\"12 rue du Four\n75006 Paris\",9,40\nCMD-2,b,c,d\n")

	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"CMD-1", "12 rue du Four\n75006 Paris", "9", "40"}, rows[0])
	assert.Equal(t, []string{"CMD-2", "b", "c", "d"}, rows[1])
}

func TestParseRows_CRLFAndTrailingBlankLine(t *testing.T) {
	rows := ParseRows("a,b\r\nc,d\r\n\r\n")

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, rows)
}

func TestParseRows_NoTrailingNewline(t *testing.T) {
	rows := ParseRows("a,b\nc,d")

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, rows)
}

func TestParseRows_ShortRowsPassThrough(t *testing.T) {
	rows := ParseRows("a,b,c\nd,e\n")

	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "e"}}, rows)
}

func TestParseRows_EmptyFieldsKept(t *testing.T) {
	rows := ParseRows("a,,c\n")

	assert.Equal(t, [][]string{{"a", "", "c"}}, rows)
}

func TestParseRows_EmptyInput(t *testing.T) {
	assert.Empty(t, ParseRows(""))
	assert.Empty(t, ParseRows("\n\n"))
}

func TestParseRows_FullyQuotedRow(t *testing.T) {
	rows := ParseRows("\"a\",\"b\",\"c\"\n")

	assert.Equal(t, [][]string{{"a", "b", "c"}}, rows)
}
