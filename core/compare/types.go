package compare

import "location-manager/core/normalize"

// FieldDef defines one logical field that is diffable across the two systems'
// record shapes. This is configuration, not data: the table of definitions
// decides which fields the comparator looks at and where to find them.
type FieldDef struct {
	// Field is the logical field name (e.g. "address").
	Field string
	// GDOSPath is the dotted path into a GDOS directory record.
	GDOSPath string
	// ZestyPath is the dotted path into a Zesty CMS record.
	ZestyPath string
	// Hint selects field-specific normalization rules; empty means the
	// generic rules only.
	Hint string
}

// DefaultFields is the standard comparison table for location records.
var DefaultFields = []FieldDef{
	{Field: "name", GDOSPath: "name", ZestyPath: "Column1.content.name", Hint: normalize.FieldName},
	{Field: "address", GDOSPath: "address1", ZestyPath: "Column1.content.address"},
	{Field: "city", GDOSPath: "city", ZestyPath: "Column1.content.city"},
	{Field: "state", GDOSPath: "state", ZestyPath: "Column1.content.state"},
	{Field: "zipcode", GDOSPath: "zip", ZestyPath: "Column1.content.zipcode"},
	{Field: "phone", GDOSPath: "phone", ZestyPath: "Column1.content.phone"},
	{Field: "website", GDOSPath: "url", ZestyPath: "Column1.content.website", Hint: normalize.FieldWebsite},
	{Field: "hours", GDOSPath: "hours", ZestyPath: "Column1.content.hours", Hint: normalize.FieldHours},
}

// FieldChange records how one field of one entity moved between the two
// snapshots, per system.
type FieldChange struct {
	// Field is the logical field name.
	Field string `json:"field"`

	// GDOSChanged indicates the GDOS value differs between snapshots
	// (normalized comparison; two absent values count as unchanged).
	GDOSChanged bool `json:"gdos_changed"`

	// ZestyChanged indicates the Zesty value differs between snapshots.
	ZestyChanged bool `json:"zesty_changed"`

	// GDOSOld and GDOSNew are the raw GDOS values in the older and newer
	// snapshot. Nil means absent.
	GDOSOld any `json:"gdos_old"`
	GDOSNew any `json:"gdos_new"`

	// ZestyOld and ZestyNew are the raw Zesty values.
	ZestyOld any `json:"zesty_old"`
	ZestyNew any `json:"zesty_new"`

	// NeedsUpdate is true when a side changed and the newer value on a
	// changed side is present, i.e. there is an actionable forward fix.
	// A value that merely became unset still shows as changed but does not
	// set NeedsUpdate.
	NeedsUpdate bool `json:"needs_update"`
}

// Recommendation actions.
const (
	ActionReview = "review"
	ActionNone   = "none"
)

// Recommendation summarizes what, if anything, a reviewer should look at.
type Recommendation struct {
	// Action is "review" when any field needs an update, else "none".
	Action string `json:"action"`

	// Message is a human-readable summary.
	Message string `json:"message"`

	// Fields lists the field names needing review, in definition order.
	Fields []string `json:"fields"`
}

// Result aggregates all field change records for one entity id.
type Result struct {
	// EntityID is the string-normalized entity id.
	EntityID string `json:"entity_id"`

	// Region is the GDOS region code of the entity in the newer snapshot,
	// or the older one if the entity vanished. Empty if the entity is not
	// present in GDOS at all.
	Region string `json:"region"`

	// Fields maps logical field name to its change record.
	Fields map[string]FieldChange `json:"fields"`

	// Recommendation is derived from the field change records.
	Recommendation Recommendation `json:"recommendation"`
}
