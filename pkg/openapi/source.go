package openapi

import (
	"path/filepath"
	"strings"
)

// source is the one concrete Source implementation. The kind tag is what
// the loader dispatches on; the location is interpreted per kind.
type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind { return s.kind }
func (s source) Location() string { return s.location }

// SourceFromFile identifies an on-disk document. The path is cleaned so
// equivalent spellings converge on one loader cache key.
func SourceFromFile(path string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS identifies a document inside the loader's configured fs.FS.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: name}
}

// SourceFromURL identifies a remote document. The URL is not validated
// here; a malformed one surfaces as a load error, like every other bad
// source.
func SourceFromURL(raw string) Source {
	return source{kind: SourceKindURL, location: strings.TrimSpace(raw)}
}
