package compare

import (
	"fmt"
	"sync"

	"location-manager/core/normalize"
	"location-manager/core/pathval"
	"location-manager/core/snapshot"
	"location-manager/core/utils"
)

// Comparator computes field-level diffs for entities across two snapshots of
// the two source systems. It is constructed once per session and passed by
// reference; results are memoized by entity id until ClearCache is called.
type Comparator struct {
	store  *snapshot.Store
	older  string
	newer  string
	fields []FieldDef

	mu    sync.Mutex
	cache map[string]*Result
	maps  map[string]*snapshot.Maps
}

// New creates a comparator over the older and newer snapshot labels using the
// given field definition table.
func New(store *snapshot.Store, older, newer string, fields []FieldDef) *Comparator {
	return &Comparator{
		store:  store,
		older:  older,
		newer:  newer,
		fields: fields,
		cache:  make(map[string]*Result),
		maps:   make(map[string]*snapshot.Maps),
	}
}

// Labels returns the older and newer snapshot labels.
func (c *Comparator) Labels() (older, newer string) {
	return c.older, c.newer
}

// CompareEntity computes (or returns the cached) comparison result for one
// entity id. Repeated calls for the same id return the identical cached
// result. An entity absent from both systems in both snapshots still yields a
// full result with all fields absent and no changes; absence is not failure.
func (c *Comparator) CompareEntity(id any) (*Result, error) {
	key := utils.ToString(id)
	if key == "" {
		return nil, fmt.Errorf("entity id is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.cache[key]; ok {
		return cached, nil
	}

	olderMaps, err := c.lookupMapsLocked(c.older)
	if err != nil {
		return nil, err
	}
	newerMaps, err := c.lookupMapsLocked(c.newer)
	if err != nil {
		return nil, err
	}

	result := c.build(key, olderMaps, newerMaps)
	c.cache[key] = result
	return result, nil
}

// CachedResults returns a copy of the memoized results keyed by entity id.
func (c *Comparator) CachedResults() map[string]*Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]*Result, len(c.cache))
	for k, v := range c.cache {
		out[k] = v
	}
	return out
}

// LookupMaps returns the (possibly cached) lookup maps for a snapshot label.
func (c *Comparator) LookupMaps(label string) (*snapshot.Maps, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupMapsLocked(label)
}

// ClearCache drops all memoized results and lookup maps. The owning service
// calls this after every successful snapshot load so comparisons never serve
// records from a replaced snapshot.
func (c *Comparator) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*Result)
	c.maps = make(map[string]*snapshot.Maps)
}

func (c *Comparator) lookupMapsLocked(label string) (*snapshot.Maps, error) {
	if m, ok := c.maps[label]; ok {
		return m, nil
	}
	m, err := c.store.LookupMaps(label)
	if err != nil {
		return nil, err
	}
	c.maps[label] = m
	return m, nil
}

// build assembles the result for one entity from the two snapshots' maps.
func (c *Comparator) build(key string, olderMaps, newerMaps *snapshot.Maps) *Result {
	result := &Result{
		EntityID: key,
		Fields:   make(map[string]FieldChange, len(c.fields)),
	}

	gdosOldRec := olderMaps.GDOS[key]
	gdosNewRec := newerMaps.GDOS[key]
	zestyOldRec := olderMaps.Zesty[key]
	zestyNewRec := newerMaps.Zesty[key]

	if gdosNewRec != nil {
		result.Region = utils.ToString(gdosNewRec[snapshot.RegionField])
	} else if gdosOldRec != nil {
		result.Region = utils.ToString(gdosOldRec[snapshot.RegionField])
	}

	var reviewFields []string
	for _, def := range c.fields {
		change := FieldChange{Field: def.Field}

		change.GDOSOld = extract(gdosOldRec, def.GDOSPath)
		change.GDOSNew = extract(gdosNewRec, def.GDOSPath)
		change.ZestyOld = extract(zestyOldRec, def.ZestyPath)
		change.ZestyNew = extract(zestyNewRec, def.ZestyPath)

		gdosOld := normalize.Normalize(change.GDOSOld, def.Hint)
		gdosNew := normalize.Normalize(change.GDOSNew, def.Hint)
		zestyOld := normalize.Normalize(change.ZestyOld, def.Hint)
		zestyNew := normalize.Normalize(change.ZestyNew, def.Hint)

		change.GDOSChanged = !normalize.Equal(gdosOld, gdosNew)
		change.ZestyChanged = !normalize.Equal(zestyOld, zestyNew)

		if change.GDOSChanged || change.ZestyChanged {
			// Only actionable when the changed side still carries a value:
			// a field that simply became unset stays visible as a change but
			// has nothing to fix forward.
			actionable := (change.GDOSChanged && gdosNew != nil) ||
				(change.ZestyChanged && zestyNew != nil)
			if actionable {
				change.NeedsUpdate = true
				reviewFields = append(reviewFields, def.Field)
			}
		}

		result.Fields[def.Field] = change
	}

	if len(reviewFields) > 0 {
		result.Recommendation = Recommendation{
			Action:  ActionReview,
			Message: fmt.Sprintf("%d field(s) changed between %s and %s", len(reviewFields), c.older, c.newer),
			Fields:  reviewFields,
		}
	} else {
		result.Recommendation = Recommendation{
			Action:  ActionNone,
			Message: "no changes detected",
			Fields:  []string{},
		}
	}

	return result
}

// extract resolves a dotted path in a record; a nil record or a missing path
// at any level yields nil, never an error.
func extract(rec map[string]any, path string) any {
	if rec == nil {
		return nil
	}
	val, ok := pathval.Lookup(rec, path)
	if !ok {
		return nil
	}
	return val
}
