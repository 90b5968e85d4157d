package prepare_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/catalogsync/pkg/prepare"
)

func TestFormatID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "orders", "orders"},
		{"separators collapse", "  dbo.Orders  Table ", "dbo_Orders_Table"},
		{"accents folded", "ação_çñ", "acao_cn"},
		{"non latin dropped", "表orders", "orders"},
		{"truncated", strings.Repeat("a", 70), strings.Repeat("a", 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prepare.FormatID(tt.input))
		})
	}
}

func TestFormatIDWithHashing(t *testing.T) {
	short := "schema.table"
	assert.Equal(t, "schema_table", prepare.FormatIDWithHashing(short, 8))

	a := prepare.FormatIDWithHashing(strings.Repeat("x", 70)+"a", 8)
	b := prepare.FormatIDWithHashing(strings.Repeat("x", 70)+"b", 8)

	assert.Len(t, a, 64)
	assert.Len(t, b, 64)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, strings.Repeat("x", 56)))
	assert.Regexp(t, "^[0-9a-f]{8}$", a[56:])
}

func TestFormatDisplayName(t *testing.T) {
	assert.Equal(t, "Sales - Orders_2024_", prepare.FormatDisplayName(" Sales - Orders/2024! "))
	assert.Equal(t, "Relatorio", prepare.FormatDisplayName("Relatório"))
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"fits", "abc", 3, "abc"},
		{"ascii", "abcdefghij", 8, "abcde..."},
		{"multibyte boundary", "ááááá", 8, "áá..."},
		{"emoji", "😀😀😀", 9, "😀..."},
		{"tiny budget", "abcdef", 2, ".."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prepare.TruncateString(tt.input, tt.max)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), tt.max)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestTruncateStringNonPositiveBudget(t *testing.T) {
	assert.Empty(t, prepare.TruncateString("abc", 0))
	assert.Empty(t, prepare.TruncateString("abc", -1))
	assert.Empty(t, prepare.TruncateString("", -5))
}

func TestTruncateStringBound(t *testing.T) {
	s := strings.Repeat("aé😀", 500)
	for n := 3; n < 64; n++ {
		got := prepare.TruncateString(s, n)
		assert.LessOrEqual(t, len(got), n)
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.True(t, utf8.ValidString(got))
	}
}
