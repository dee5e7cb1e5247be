// Package emit holds the artifact model shared by the type, validator and
// operation emitters, plus the bookkeeping that keeps declarations unique
// within a run.
package emit

// Kind labels what a generated artifact declares. The generator uses it to
// route artifacts into the right output file; the content itself is opaque
// text.
type Kind string

const (
	KindType      Kind = "type"
	KindEnum      Kind = "enum"
	KindValidator Kind = "validator"
	KindFunction  Kind = "function"
	KindQueryType Kind = "query-type"
	KindCacheKey  Kind = "cache-key"
	KindHook      Kind = "hook"
)

// Artifact is one generated declaration. Name is the declared identifier,
// used for de-duplication and diagnostics; Content is handed to the writer
// untouched.
type Artifact struct {
	Name    string
	Kind    Kind
	Content string
}

// Set tracks which names have already been processed or declared during a
// run. Distinct sets guard "declaration written" and "schema processed":
// a name can be assigned by the registry long before its declaration is
// emitted.
type Set struct {
	seen map[string]struct{}
}

// NewSet constructs an empty tracking set.
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Add records a name, reporting true when it was not present before. The
// usual pattern is to emit only when Add returns true.
func (s *Set) Add(name string) bool {
	if _, ok := s.seen[name]; ok {
		return false
	}
	s.seen[name] = struct{}{}
	return true
}

// Has reports whether a name was recorded.
func (s *Set) Has(name string) bool {
	_, ok := s.seen[name]
	return ok
}
