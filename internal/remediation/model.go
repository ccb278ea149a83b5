// Package remediation implements the finding-to-prompt pipeline: filter a
// unit's findings, build a completion prompt from them, and normalize the
// model's reply into a per-unit result.
package remediation

import (
	"strings"
)

// Finding represents a single static-analysis finding attached to a unit.
// All fields are free-form text; severity and issue_type are categorical.
type Finding struct {
	PgmName             string `json:"pgm_name,omitempty"`
	IncName             string `json:"inc_name,omitempty"`
	Type                string `json:"type,omitempty"`
	Name                string `json:"name,omitempty"`
	ClassImplementation string `json:"class_implementation,omitempty"`
	IssueType           string `json:"issue_type,omitempty"`
	Severity            string `json:"severity,omitempty"`
	Message             string `json:"message,omitempty"`
	Suggestion          string `json:"suggestion,omitempty"`
	Snippet             string `json:"snippet,omitempty"`
}

// Actionable reports whether the finding carries both a snippet and a
// suggestion that are non-empty after trimming. Only actionable findings
// are worth relaying to the model.
func (f Finding) Actionable() bool {
	return strings.TrimSpace(f.Snippet) != "" && strings.TrimSpace(f.Suggestion) != ""
}

// Unit represents a located source fragment with its findings.
type Unit struct {
	PgmName             string    `json:"pgm_name"`
	IncName             string    `json:"inc_name"`
	Type                string    `json:"type"`
	Name                string    `json:"name,omitempty"`
	ClassImplementation string    `json:"class_implementation,omitempty"`
	StartLine           int       `json:"start_line,omitempty"`
	EndLine             int       `json:"end_line,omitempty"`
	Code                string    `json:"code,omitempty"`
	Findings            []Finding `json:"findings,omitempty"`
}

// RelevantFindings returns the ordered subsequence of the unit's findings
// that are actionable. Order is preserved.
func (u Unit) RelevantFindings() []Finding {
	var relevant []Finding
	for _, f := range u.Findings {
		if f.Actionable() {
			relevant = append(relevant, f)
		}
	}
	return relevant
}

// Result is the per-unit output: the unit's identifying metadata plus the
// two fields derived from the model response.
type Result struct {
	PgmName             string `json:"pgm_name"`
	IncName             string `json:"inc_name"`
	Type                string `json:"type"`
	Name                string `json:"name"`
	ClassImplementation string `json:"class_implementation"`
	StartLine           int    `json:"start_line"`
	EndLine             int    `json:"end_line"`
	Assessment          string `json:"assessment"`
	LLMPrompt           string `json:"llm_prompt"`
}

// newResult copies the unit's identifying metadata into a Result.
func newResult(u Unit) Result {
	return Result{
		PgmName:             u.PgmName,
		IncName:             u.IncName,
		Type:                u.Type,
		Name:                u.Name,
		ClassImplementation: u.ClassImplementation,
		StartLine:           u.StartLine,
		EndLine:             u.EndLine,
	}
}

// EscapeForJSONString escapes backslashes, double quotes and newlines so the
// value can be embedded in a JSON string the model is asked to re-emit.
// Best-effort mitigation against the model producing invalid JSON; order
// matters, backslashes first.
func EscapeForJSONString(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
