// Package normalize canonicalizes raw field values before comparison.
//
// GDOS and Zesty disagree on far more than actual data: casing, stray
// whitespace, embedded line breaks, URL protocols, and one historical naming
// scheme ("Family Store" vs "Thrift Store") all differ between the systems
// without the underlying location having changed. The comparator therefore
// never compares raw values; every value passes through Normalize first.
//
// Normalization is pure, deterministic, and idempotent:
// Normalize(Normalize(v)) == Normalize(v) for any input.
package normalize

import (
	"regexp"
	"strings"

	"location-manager/core/utils"
)

// Field name hints that trigger field-specific rules.
const (
	FieldName    = "name"
	FieldHours   = "hours"
	FieldWebsite = "website"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	lineBreakRun  = regexp.MustCompile(`[\r\n]+`)
	familyToken   = regexp.MustCompile(`\bfamily\b`)
)

// Normalize canonicalizes a raw value for comparison. It returns nil for
// absent values (nil, empty, or whitespace-only strings); everything else is
// stringified, trimmed, lowercased, and has internal whitespace runs collapsed
// to a single space.
//
// The field hint layers domain rules on top:
//   - FieldHours: CR/LF runs become a single space.
//   - FieldWebsite: an "http://" prefix is rewritten to "https://" so the two
//     systems' protocol disagreement never reads as a content change.
//   - FieldName: the token "family" folds to "thrift" (two naming schemes that
//     are considered identical for migration purposes).
func Normalize(value any, field string) *string {
	if value == nil {
		return nil
	}

	s := utils.ToString(value)

	if field == FieldHours {
		s = lineBreakRun.ReplaceAllString(s, " ")
	}

	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRun.ReplaceAllString(s, " ")
	if s == "" {
		return nil
	}

	switch field {
	case FieldWebsite:
		if strings.HasPrefix(s, "http://") {
			s = "https://" + strings.TrimPrefix(s, "http://")
		}
	case FieldName:
		s = familyToken.ReplaceAllString(s, "thrift")
	}

	return &s
}

// Equal reports whether two normalized values compare equal.
// Two absent values are equal (both nil means no change, not a conflict).
func Equal(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
