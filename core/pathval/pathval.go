// Package pathval provides dotted-path lookups into decoded JSON documents.
//
// The two source systems the location manager compares (GDOS and Zesty) expose
// records of very different shapes: GDOS records are flat objects, while Zesty
// location records nest the interesting content several levels deep (e.g.
// "Column1.content.gdos_id"). Field comparison definitions reference both
// shapes through dotted paths, and this package resolves them uniformly.
package pathval

import "strings"

// Lookup traverses doc along the dotted path and returns the value found.
// A missing key or a non-object intermediate value yields (nil, false); the
// traversal never panics. An empty path returns the document itself.
func Lookup(doc any, path string) (any, bool) {
	if path == "" {
		return doc, doc != nil
	}

	current := doc
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
