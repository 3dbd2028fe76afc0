package corrections

import (
	"bytes"
	"encoding/json"
	"strings"

	"location-manager/core/utils"
)

// legacySiteTitleCorrect is the historical correct-source label whose entries
// were stored under a different field name than they declared. The substitution
// is preserved for backward compatibility, not a general rule.
const legacySiteTitleCorrect = "Zesty Name to Site Title"

// legacyEntry is one element of the legacy flat-array corrections encoding.
type legacyEntry struct {
	GdosID           any    `json:"gdos_id"`
	Region           string `json:"region"`
	Field            string `json:"field"`
	Correct          string `json:"correct"`
	CustomZestyValue any    `json:"customZestyValue"`
	ZestyValue       any    `json:"zesty_value"`
}

// DecodeReplacement decodes a PUT body into the full corrections mapping.
// The body is a tagged union inspected once:
//   - a JSON object is the mapping itself,
//   - a JSON array is the legacy flat encoding,
//   - an object wrapping an array under "data" is the wrapped legacy encoding.
//
// Anything else is an InvalidPayloadError.
func DecodeReplacement(body []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &InvalidPayloadError{Reason: "empty body"}
	}

	switch trimmed[0] {
	case '[':
		var entries []legacyEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, &InvalidPayloadError{Reason: "malformed legacy array: " + err.Error()}
		}
		return transcodeLegacy(entries), nil

	case '{':
		// Peek for a legacy {data: [...]} wrapper before committing to the
		// mapping shape.
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, &InvalidPayloadError{Reason: "malformed JSON: " + err.Error()}
		}
		if raw, ok := probe["data"]; ok && len(probe) == 1 && len(bytes.TrimSpace(raw)) > 0 && bytes.TrimSpace(raw)[0] == '[' {
			var entries []legacyEntry
			if err := json.Unmarshal(raw, &entries); err != nil {
				return nil, &InvalidPayloadError{Reason: "malformed legacy array: " + err.Error()}
			}
			return transcodeLegacy(entries), nil
		}

		var mapping map[string]any
		if err := json.Unmarshal(trimmed, &mapping); err != nil {
			return nil, &InvalidPayloadError{Reason: "malformed JSON: " + err.Error()}
		}
		return mapping, nil

	default:
		return nil, &InvalidPayloadError{Reason: "body must be a corrections object or a legacy array"}
	}
}

// DecodeDelta decodes a PATCH body into a partial delta mapping. Values are
// kept raw so an explicit JSON null (delete tombstone) stays distinguishable
// from an absent key.
func DecodeDelta(body []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &InvalidPayloadError{Reason: "delta must be a JSON object"}
	}
	var delta map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &delta); err != nil {
		return nil, &InvalidPayloadError{Reason: "malformed JSON: " + err.Error()}
	}
	return delta, nil
}

// transcodeLegacy converts legacy array entries into the composite-key
// mapping. The key is "{region}-{entityId}-{field}" with empty parts omitted.
func transcodeLegacy(entries []legacyEntry) map[string]any {
	mapping := make(map[string]any, len(entries))
	for _, e := range entries {
		id := utils.ToString(e.GdosID)
		field := e.Field
		if e.Correct == legacySiteTitleCorrect {
			field = "siteTitle"
		}
		if id == "" || field == "" {
			continue
		}

		var parts []string
		if e.Region != "" {
			parts = append(parts, e.Region)
		}
		parts = append(parts, id, field)

		value := e.CustomZestyValue
		if value == nil {
			value = e.ZestyValue
		}

		mapping[strings.Join(parts, "-")] = map[string]any{
			"correct": e.Correct,
			"value":   value,
		}
	}
	return mapping
}
