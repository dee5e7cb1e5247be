package naming

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// Suffixes stripped from parent schema names before they seed an enum
// identifier. "OrderStatusDto" and "OrderStatusResponse" both collapse to
// "OrderStatus".
var strippedSuffixes = []string{"Dto", "DTO", "Response", "Request", "Model"}

// Pascal converts an arbitrary identifier into PascalCase after dropping
// characters the target language would reject.
func Pascal(name string) string {
	return strcase.ToCamel(sanitize(name))
}

// Camel converts an arbitrary identifier into lowerCamelCase.
func Camel(name string) string {
	return strcase.ToLowerCamel(sanitize(name))
}

// TrimTypeSuffixes removes common DTO-style suffixes from a schema name.
func TrimTypeSuffixes(name string) string {
	for changed := true; changed; {
		changed = false
		for _, suffix := range strippedSuffixes {
			if len(name) > len(suffix) && strings.HasSuffix(name, suffix) {
				name = strings.TrimSuffix(name, suffix)
				changed = true
			}
		}
	}
	return name
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_' || r == '-' || r == ' ' || r == '.' || r == '/':
			b.WriteRune(' ')
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "Value"
	}
	// Identifiers cannot start with a digit.
	if unicode.IsDigit(rune(out[0])) {
		out = "N" + out
	}
	return out
}
