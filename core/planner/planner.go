// Package planner turns reviewed field changes into durable update-intent
// records without mutating the snapshots themselves.
//
// Applying an update records an audit entry (what would change, from which
// value to which value, and when); pushing the actual corrections to the
// correction store is a separate, explicit client action. The history is
// append-only and exportable as JSON.
package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"location-manager/core/compare"
)

// NotComparedError reports that an update was requested for an entity that has
// no cached comparison. Callers should prompt for a comparison first.
type NotComparedError struct {
	EntityID string
}

func (e *NotComparedError) Error() string {
	return fmt.Sprintf("entity %s has not been compared", e.EntityID)
}

// FieldValues captures the before/after values of one field in an update.
type FieldValues struct {
	// From is the value in the currently authoritative (newer) snapshot.
	From any `json:"from"`
	// To is the value in the target snapshot.
	To any `json:"to"`
}

// UpdateRecord is one append-only audit entry.
type UpdateRecord struct {
	// EntityID is the string-normalized entity id.
	EntityID string `json:"entity_id"`

	// Fields lists the recorded field names, in request order.
	Fields []string `json:"fields"`

	// TargetSnapshot is the label whose values the update would move to.
	TargetSnapshot string `json:"target_snapshot"`

	// Values maps field name to its before/after pair.
	Values map[string]FieldValues `json:"values"`

	// AppliedAt is the RFC3339 timestamp of record creation.
	AppliedAt string `json:"applied_at"`
}

// AuditSink receives every update record for durable persistence. The in-memory
// history is kept regardless; a sink only adds durability.
type AuditSink interface {
	Record(ctx context.Context, rec *UpdateRecord) error
}

// Stats aggregates the planner's view of the comparison session. It is
// recomputed on demand from the comparator cache and snapshot maps; nothing is
// maintained incrementally.
type Stats struct {
	// CurrentEntities is the entity count of the newer snapshot's GDOS map.
	CurrentEntities int `json:"current_entities"`

	// PriorEntities is the entity count of the older snapshot's GDOS map.
	PriorEntities int `json:"prior_entities"`

	// NeedingReview counts cached comparisons whose recommendation is "review".
	NeedingReview int `json:"needing_review"`

	// UpdatesApplied is the length of the update history.
	UpdatesApplied int `json:"updates_applied"`

	// FieldChangeCounts breaks down how often each field needed an update
	// across all cached comparisons.
	FieldChangeCounts map[string]int `json:"field_change_counts"`
}

// Planner records update intents against a comparator's cached results.
type Planner struct {
	comparator *compare.Comparator
	sink       AuditSink

	mu      sync.Mutex
	history []*UpdateRecord
}

// New creates a planner over the given comparator. sink may be nil for
// memory-only history.
func New(comparator *compare.Comparator, sink AuditSink) *Planner {
	return &Planner{comparator: comparator, sink: sink}
}

// Apply records an update intent for the selected fields of an entity.
// It fails with NotComparedError if the entity has no cached comparison.
// Requested fields without a known change record are skipped silently; only
// fields the comparison knows about are recorded.
func (p *Planner) Apply(ctx context.Context, entityID string, fields []string, targetLabel string) (*UpdateRecord, error) {
	result, ok := p.cachedResult(entityID)
	if !ok {
		return nil, &NotComparedError{EntityID: entityID}
	}

	older, _ := p.comparator.Labels()

	rec := &UpdateRecord{
		EntityID:       result.EntityID,
		TargetSnapshot: targetLabel,
		Values:         make(map[string]FieldValues),
		AppliedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	for _, field := range fields {
		change, known := result.Fields[field]
		if !known {
			continue
		}
		to := change.GDOSNew
		if targetLabel == older {
			to = change.GDOSOld
		}
		rec.Fields = append(rec.Fields, field)
		rec.Values[field] = FieldValues{
			From: change.ZestyNew,
			To:   to,
		}
	}

	p.mu.Lock()
	p.history = append(p.history, rec)
	p.mu.Unlock()

	if p.sink != nil {
		if err := p.sink.Record(ctx, rec); err != nil {
			return nil, fmt.Errorf("persist update record: %w", err)
		}
	}

	return rec, nil
}

// History returns a copy of the append-only update history.
func (p *Planner) History() []*UpdateRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*UpdateRecord, len(p.history))
	copy(out, p.history)
	return out
}

// Stats recomputes aggregate counts over the comparator cache and the
// snapshot lookup maps.
func (p *Planner) Stats() (*Stats, error) {
	older, newer := p.comparator.Labels()

	stats := &Stats{FieldChangeCounts: make(map[string]int)}

	if maps, err := p.comparator.LookupMaps(newer); err == nil {
		stats.CurrentEntities = len(maps.GDOS)
	}
	if maps, err := p.comparator.LookupMaps(older); err == nil {
		stats.PriorEntities = len(maps.GDOS)
	}

	for _, result := range p.comparator.CachedResults() {
		if result.Recommendation.Action == compare.ActionReview {
			stats.NeedingReview++
		}
		for field, change := range result.Fields {
			if change.NeedsUpdate {
				stats.FieldChangeCounts[field]++
			}
		}
	}

	p.mu.Lock()
	stats.UpdatesApplied = len(p.history)
	p.mu.Unlock()

	return stats, nil
}

func (p *Planner) cachedResult(entityID string) (*compare.Result, bool) {
	results := p.comparator.CachedResults()
	result, ok := results[entityID]
	return result, ok
}
