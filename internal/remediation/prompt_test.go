package remediation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPromptBuilder(t *testing.T) {
	t.Run("known style", func(t *testing.T) {
		builder, err := NewPromptBuilder("select-single")
		require.NoError(t, err)
		assert.Equal(t, "select-single", builder.Style())
	})

	t.Run("unknown style", func(t *testing.T) {
		_, err := NewPromptBuilder("nonexistent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown prompt style")
		assert.Contains(t, err.Error(), "select-single", "error should name the available styles")
	})
}

func TestStyleNames(t *testing.T) {
	assert.Contains(t, StyleNames(), "select-single")
}

func TestBuildSystemInstruction(t *testing.T) {
	builder, err := NewPromptBuilder("select-single")
	require.NoError(t, err)

	msgs, err := builder.Build(Unit{PgmName: "Z", IncName: "I", Type: "FORM"}, []Finding{
		{Message: "m", Snippet: "s", Suggestion: "g"},
	})
	require.NoError(t, err)

	// The output contract must be fully stated in the system instruction
	assert.Contains(t, msgs.System, `"assessment"`)
	assert.Contains(t, msgs.System, `"llm_prompt"`)
	assert.Contains(t, msgs.System, "Old code:")
	assert.Contains(t, msgs.System, "Remediated code:")
	assert.Contains(t, msgs.System, "```abap")
	assert.Contains(t, msgs.System, "EVERY finding must appear as its own section")
	assert.Contains(t, msgs.System, `use \n`)
	assert.Contains(t, msgs.System, "not a JSON array")
	assert.NotContains(t, msgs.System, "{{", "no unexpanded template actions")
}

func TestBuildUserMessage(t *testing.T) {
	builder, err := NewPromptBuilder("select-single")
	require.NoError(t, err)

	unit := Unit{
		PgmName:             "ZREPORT",
		IncName:             "ZINCLUDE",
		Type:                "METHOD",
		Name:                "get_data",
		ClassImplementation: "zcl_reader",
		StartLine:           5,
		EndLine:             20,
	}
	findings := []Finding{
		{Message: "Avoid SELECT without WHERE", Snippet: "SELECT * FROM T.", Suggestion: "SELECT SINGLE * FROM T WHERE id = @id."},
		{Message: "Use host variables", Snippet: "WHERE id = lv_id.", Suggestion: "WHERE id = @lv_id."},
	}

	msgs, err := builder.Build(unit, findings)
	require.NoError(t, err)

	// Identity metadata is embedded verbatim
	assert.Contains(t, msgs.User, "Program: ZREPORT")
	assert.Contains(t, msgs.User, "Include: ZINCLUDE")
	assert.Contains(t, msgs.User, "Unit type: METHOD")
	assert.Contains(t, msgs.User, "Unit name: get_data")
	assert.Contains(t, msgs.User, "Class implementation: zcl_reader")
	assert.Contains(t, msgs.User, "Start line: 5")
	assert.Contains(t, msgs.User, "End line: 20")

	// The findings list is embedded as JSON, with the free-form fields escaped
	assert.Contains(t, msgs.User, `"message": "Avoid SELECT without WHERE"`)
	assert.Contains(t, msgs.User, `"snippet": "SELECT * FROM T."`)
	assert.Contains(t, msgs.User, `"suggestion": "SELECT SINGLE * FROM T WHERE id = @id."`)

	// The per-finding section count is stated explicitly
	assert.Contains(t, msgs.User, "There are 2 such findings")
	assert.Contains(t, msgs.User, "exactly 2 sections")
	assert.NotContains(t, msgs.User, "{{", "no unexpanded template actions")
}

func TestBuildEscapesEmbeddedText(t *testing.T) {
	builder, err := NewPromptBuilder("select-single")
	require.NoError(t, err)

	unit := Unit{PgmName: `Z"PROG`, IncName: "ZINC", Type: "FORM"}
	findings := []Finding{
		{
			Message:    "multi\nline message",
			Snippet:    `WRITE: / 'a"b'.` + "\nWRITE: / 'c'.",
			Suggestion: `path\to\thing`,
		},
	}

	msgs, err := builder.Build(unit, findings)
	require.NoError(t, err)

	// Metadata quote is escaped
	assert.Contains(t, msgs.User, `Program: Z\"PROG`)

	// Newlines inside finding text are pre-escaped before JSON rendering, so
	// the embedded JSON carries a double-escaped sequence
	assert.Contains(t, msgs.User, `multi\\nline message`)
	assert.Contains(t, msgs.User, `path\\\\to\\\\thing`)
	assert.NotContains(t, msgs.User, "multi\nline message", "raw newline must not survive inside the findings JSON")
}

func TestBuildFindingsJSONIsIndentedArray(t *testing.T) {
	builder, err := NewPromptBuilder("select-single")
	require.NoError(t, err)

	msgs, err := builder.Build(Unit{PgmName: "Z"}, []Finding{
		{Message: "m1", Snippet: "s1", Suggestion: "g1"},
		{Message: "m2", Snippet: "s2", Suggestion: "g2"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(msgs.User, `"message":`), "one JSON object per finding")
	assert.Contains(t, msgs.User, "findings (json):\n[")
}

func TestMarshalFindingsNoHTMLEscaping(t *testing.T) {
	out, err := marshalFindings([]Finding{
		{Message: "use <= instead of <", Snippet: "a < b", Suggestion: "a <= b"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "a < b", "HTML escaping must be disabled")
	assert.NotContains(t, out, "\\u003c")
}
