package operations

import (
	"strings"

	"github.com/goliatone/go-clientgen/pkg/naming"
	"github.com/goliatone/go-clientgen/pkg/openapi"
)

// functionName derives the client function identifier for an operation.
// An explicit operation id wins; otherwise the name is synthesized from
// the HTTP method and the last static path segment, with a "By<Param>"
// suffix when the path ends in a parameter. The same inputs always
// produce the same name, which is what keeps cache keys and hook names
// stable across runs.
func functionName(op openapi.Operation) string {
	if op.ID != "" {
		return naming.Camel(op.ID)
	}
	return synthesizeName(op)
}

func synthesizeName(op openapi.Operation) string {
	method := strings.ToLower(op.Method)
	segments := splitPath(op.Path)

	base := ""
	trailingParam := ""
	for i := len(segments) - 1; i >= 0; i-- {
		if name, ok := paramSegment(segments[i]); ok {
			if i == len(segments)-1 {
				trailingParam = name
			}
			continue
		}
		base = segments[i]
		break
	}

	if base == "" {
		// Path made of nothing but parameters, or the root path.
		base = "root"
	}

	if trailingParam != "" {
		// GET /products/{id} reads better as a lookup of one product.
		return method + singular(naming.Pascal(base)) + "By" + naming.Pascal(trailingParam)
	}
	return method + naming.Pascal(base)
}

func splitPath(path string) []string {
	var out []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

func paramSegment(segment string) (string, bool) {
	if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
		return segment[1 : len(segment)-1], true
	}
	return "", false
}

// singular trims a plural collection segment for by-id lookups. The naive
// rule covers conventional REST paths; irregular nouns keep their spelling,
// which is still a valid identifier.
func singular(word string) string {
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "ses") && len(word) > 3:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && len(word) > 1:
		return word[:len(word)-1]
	}
	return word
}
