package emit

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	commentPolicyOnce sync.Once
	commentPolicy     *bluemonday.Policy
)

// DocComment turns a schema or operation description into a single-line
// doc comment for generated code. Descriptions in real-world documents
// frequently carry HTML; everything but text is stripped before the string
// lands in an emitted file. Returns "" when nothing survives.
func DocComment(description string) string {
	cleaned := sanitizeDescription(description)
	if cleaned == "" {
		return ""
	}
	return "/** " + cleaned + " */"
}

func sanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := strings.TrimSpace(descriptionSanitizer().Sanitize(trimmed))
	if cleaned == "" {
		return ""
	}
	// Collapse newlines and runs of whitespace so the comment stays on one
	// line regardless of how the document formatted the description.
	fields := strings.Fields(cleaned)
	out := strings.Join(fields, " ")
	// A stray comment terminator would break the generated file.
	return strings.ReplaceAll(out, "*/", "*\\/")
}

func descriptionSanitizer() *bluemonday.Policy {
	commentPolicyOnce.Do(func() {
		commentPolicy = bluemonday.StrictPolicy()
	})
	return commentPolicy
}
