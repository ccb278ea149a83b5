package remediation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"text/template"
)

// fence is the Markdown code-fence marker, injected into the templates so
// the instruction text can stay a raw string literal.
const fence = "```"

// Templates for building prompts. Each remediation style pairs a fixed
// system instruction with a per-unit user message template.
const selectSingleSystemTemplate = `You are a senior ABAP and SAP expert. You ALWAYS output a single flat JSON object with exactly these two string fields: "assessment" and "llm_prompt".

Instructions:
- "assessment": a brief summary, in plain English, of all the types of code transformations/remediations from the findings. Do not include any ABAP code here; just describe what you changed and why (e.g. "Converted 3 non-optimized SELECT statements to safe SELECT SINGLE patterns.").
- "llm_prompt": a single Markdown block, as a JSON-escaped string, listing for EACH finding:
  - the [finding message]
  - Old code:
    {{.Fence}}abap
    [snippet]
    {{.Fence}}
  - Remediated code:
    {{.Fence}}abap
    [suggestion]
    {{.Fence}}
- EVERY finding must appear as its own section. Never merge findings or summarize several findings into one section.
- Separate sections with a blank line.
- All output must be JSON-escaped:
    - No literal newlines, use \n
    - No raw quotes, use \"
    - Backslash as \\
- "llm_prompt" is a flat string, not a JSON array.
- Sample output:
{
  "assessment": "Transformed all SELECT statements to SELECT SINGLE according to best practices.",
  "llm_prompt": "- [Finding A description]\nOld code:\n{{.Fence}}abap\n...\n{{.Fence}}\nRemediated code:\n{{.Fence}}abap\n...\n{{.Fence}}\n\n- ..."
}`

const selectSingleUserTemplate = `Unit:
Program: {{.PgmName}}
Include: {{.IncName}}
Unit type: {{.UnitType}}
Unit name: {{.UnitName}}
Class implementation: {{.ClassImplementation}}
Start line: {{.StartLine}}
End line: {{.EndLine}}

findings (json):
{{.FindingsJSON}}

Instructions:
- For EACH finding with both non-empty snippet and suggestion:
    - Render its own section in 'llm_prompt' as described above: the finding message, an "Old code" {{.Fence}}abap{{.Fence}} block with the snippet, a "Remediated code" {{.Fence}}abap{{.Fence}} block with the suggestion.
    - There are {{.FindingCount}} such findings; 'llm_prompt' must contain exactly {{.FindingCount}} sections, separated by blank lines (\n\n).
    - Snippet and suggestion must be included verbatim and properly JSON-escaped (\n for newlines, \" for quotes, \\ for backslash).
- Output only a single flat object with two string fields:
    - "assessment" (summary, plain English, no code)
    - "llm_prompt" (full Markdown listing, as a single JSON-escaped string, not a list)
- Your output must look like:
{
  "assessment": "summary...",
  "llm_prompt": "- ..."
}`

// Style pairs a named system instruction with its user message template.
// Keeping the texts in a registry lets deployments select a remediation
// style by name instead of patching the instruction per copy.
type Style struct {
	Name   string
	system string
	user   string
}

var styles = map[string]Style{
	"select-single": {
		Name:   "select-single",
		system: selectSingleSystemTemplate,
		user:   selectSingleUserTemplate,
	},
}

// StyleNames returns the registered prompt style names, sorted.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Messages is a rendered prompt pair ready for a chat completion request.
type Messages struct {
	System string
	User   string
}

// PromptBuilder renders prompt pairs for a fixed style.
type PromptBuilder struct {
	style Style
}

// NewPromptBuilder returns a builder for the named style.
func NewPromptBuilder(styleName string) (*PromptBuilder, error) {
	style, ok := styles[styleName]
	if !ok {
		return nil, fmt.Errorf("unknown prompt style %q (available: %v)", styleName, StyleNames())
	}
	return &PromptBuilder{style: style}, nil
}

// Style returns the name of the builder's style.
func (b *PromptBuilder) Style() string {
	return b.style.Name
}

// Build renders the system instruction and per-unit user message for the
// given unit and its filtered findings.
func (b *PromptBuilder) Build(unit Unit, findings []Finding) (Messages, error) {
	system, err := renderTemplate("system", b.style.system, map[string]any{
		"Fence": fence,
	})
	if err != nil {
		return Messages{}, fmt.Errorf("building system instruction: %w", err)
	}

	findingsJSON, err := marshalFindings(findings)
	if err != nil {
		return Messages{}, fmt.Errorf("rendering findings: %w", err)
	}

	user, err := renderTemplate("user", b.style.user, map[string]any{
		"Fence":               fence,
		"PgmName":             EscapeForJSONString(unit.PgmName),
		"IncName":             EscapeForJSONString(unit.IncName),
		"UnitType":            EscapeForJSONString(unit.Type),
		"UnitName":            EscapeForJSONString(unit.Name),
		"ClassImplementation": EscapeForJSONString(unit.ClassImplementation),
		"StartLine":           unit.StartLine,
		"EndLine":             unit.EndLine,
		"FindingsJSON":        findingsJSON,
		"FindingCount":        len(findings),
	})
	if err != nil {
		return Messages{}, fmt.Errorf("building user message: %w", err)
	}

	return Messages{System: system, User: user}, nil
}

func renderTemplate(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// marshalFindings renders the findings as indented JSON with the free-form
// text fields the model must re-emit (snippet, suggestion, message)
// pre-escaped.
func marshalFindings(findings []Finding) (string, error) {
	escaped := make([]Finding, len(findings))
	for i, f := range findings {
		f.Message = EscapeForJSONString(f.Message)
		f.Snippet = EscapeForJSONString(f.Snippet)
		f.Suggestion = EscapeForJSONString(f.Suggestion)
		escaped[i] = f
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(escaped); err != nil {
		return "", err
	}

	// Encode appends a trailing newline
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
