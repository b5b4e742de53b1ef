package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/eavexpr/pkg/parser"
)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := map[string]OutputMode{
		"":         ModeAuto,
		"auto":     ModeAuto,
		"text":     ModeText,
		"TEXT":     ModeText,
		"md":       ModeMarkdown,
		"markdown": ModeMarkdown,
		"json":     ModeJSON,
		"csv":      ModeCSV,
		"xml":      ModeXML,
		"yaml":     ModeAuto,
	}
	for in, want := range tests {
		assert.Equal(t, want, Mode(in), in)
	}
}

func TestEffectiveMode(t *testing.T) {
	r, _, _ := newTestRenderer(ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _, _ = newTestRenderer(ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _, _ = newTestRenderer(ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestNewRendererBufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRendererLines(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Header(2, "Entries")
	r.Success("seeded")
	r.Muted("quiet")
	r.Error("broken")

	assert.Equal(t, "## Entries\n✓ seeded\nquiet\n", out.String())
	assert.Equal(t, "✗ broken\n", errOut.String())
}

func TestRendererHeaderText(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)
	r.Header(1, "Tokens")
	assert.Equal(t, "Tokens\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Sub", FormatHeader(3, "Sub"))
	assert.Equal(t, "# Zero", FormatHeader(0, "Zero"))
	assert.Equal(t, "**File:** seed.yaml", FormatKeyValue("File", "seed.yaml"))
	assert.Equal(t, "```sql\nselect 1\n```", FormatCodeBlock("sql", "select 1\n"))
}

func TestTable(t *testing.T) {
	cols := []string{"entry_id", "num_value"}
	rows := [][]any{{"tx-1", int64(1)}, {"tx-2", nil}}

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		require.NoError(t, r.Table(cols, rows))
		assert.Contains(t, out.String(), "ENTRY_ID")
		assert.Contains(t, out.String(), "tx-2")
		assert.Contains(t, out.String(), "NULL")
		assert.Contains(t, out.String(), "(2 rows)")
	})

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		require.NoError(t, r.Table(cols, rows))
		assert.Contains(t, strings.ToLower(out.String()), "| entry_id | num_value |")
		assert.Contains(t, out.String(), "| tx-1 | 1 |")
		assert.Contains(t, out.String(), "| tx-2 | NULL |")
	})

	t.Run("csv", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeCSV, false)
		require.NoError(t, r.Table(cols, rows))
		assert.Contains(t, strings.ToLower(out.String()), "entry_id,num_value")
		assert.Contains(t, out.String(), "tx-2,NULL")
	})

	t.Run("json", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeJSON, false)
		require.NoError(t, r.Table(cols, rows))

		var got []map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "tx-1", got[0]["entry_id"])
		assert.InDelta(t, 1, got[0]["num_value"], 0)
		assert.Nil(t, got[1]["num_value"])
	})

	t.Run("empty", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		require.NoError(t, r.Table(cols, nil))
		assert.Equal(t, "(0 rows)\n", out.String())
	})

	t.Run("empty json", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeJSON, false)
		require.NoError(t, r.Table(cols, nil))
		assert.Equal(t, "[]\n", out.String())
	})
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", FormatValue(nil))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "abc", FormatValue("abc"))
}

func TestCaret(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCaret string
	}{
		{"missing operand at end", "transactionId = ", "               ^ missing operand/operator"},
		{"bad operator", "a b", "  ^ bad operator: 'b'"},
		{"first token", "= 1", "^ bad operand: '='"},
		{"unclosed list", "a in (1, 2", "          ^ missing closing ')' at: '<end>'"},
		{"lexer error", "name = 'abc", "           ^ missing closing quote (')"},
		{"newline kept on one line", "a\n=", "   ^ missing operand/operator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Compile(tt.input)
			require.Error(t, err)

			line, caret, ok := Caret(tt.input, err)
			require.True(t, ok)
			assert.NotContains(t, line, "\n")
			assert.Equal(t, tt.wantCaret, caret)
		})
	}
}

func TestCaretWithoutPosition(t *testing.T) {
	_, _, ok := Caret("a", errors.New("boom"))
	assert.False(t, ok)

	r, _, errOut := newTestRenderer(ModeText, false)
	r.Diagnostic("a", errors.New("boom"))
	assert.Equal(t, "✗ boom\n", errOut.String())
}

func TestDiagnostic(t *testing.T) {
	_, err := parser.Compile("a between 1 5")
	require.Error(t, err)

	r, out, errOut := newTestRenderer(ModeText, false)
	r.Diagnostic("a between 1 5", err)

	assert.Empty(t, out.String())
	assert.Equal(t, "a between 1 5\n            ^ missing expected 'and' at: '5'\n", errOut.String())
}
