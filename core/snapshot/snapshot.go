package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"location-manager/core/fetch"
	"location-manager/core/pathval"
	"location-manager/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NotLoadedError reports access to a snapshot label that has not been loaded
// in this session.
type NotLoadedError struct {
	Label string
}

func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("snapshot %q is not loaded", e.Label)
}

// Kind identifies which system a source feed belongs to.
type Kind string

const (
	// KindGDOS is a per-region feed of directory-system records.
	KindGDOS Kind = "gdos"
	// KindZesty is the CMS location-record feed.
	KindZesty Kind = "zesty"
	// KindScore is the optional side-channel score feed; a failed fetch
	// defaults it to empty instead of aborting the load.
	KindScore Kind = "score"
)

// RegionField is the join-discriminator field stamped onto every combined
// GDOS record. It is set explicitly during flattening, never inferred.
const RegionField = "region"

const (
	gdosIDField = "id"
	zestyIDPath = "Column1.content.gdos_id"
)

// Source describes one feed belonging to a snapshot.
type Source struct {
	// Name identifies the feed in logs and errors.
	Name string
	// URL is the feed document location.
	URL string
	// Kind routes the decoded records into the right snapshot slot.
	Kind Kind
	// Region is the GDOS region code; only set for KindGDOS sources.
	Region string
	// Optional feeds default to empty on fetch failure.
	Optional bool
}

// RegionFeed holds the raw GDOS records of one region, in feed order.
type RegionFeed struct {
	Region  string
	Records []map[string]any
}

// Snapshot is a labeled, time-stamped bundle of all source records loaded
// together. Once loaded it is immutable; only a full reload replaces it.
type Snapshot struct {
	Label       string
	GDOSRegions []RegionFeed
	Zesty       []map[string]any
	Scores      []map[string]any
	LoadedAt    time.Time
}

// Maps are the per-snapshot lookup maps from string-normalized entity id to
// the matching record of each system. They are derived state, rebuilt from the
// snapshot's raw records; entities absent from a system are simply not in its
// map.
type Maps struct {
	GDOS  map[string]map[string]any
	Zesty map[string]map[string]any
}

// Store holds labeled snapshots for the life of a session. It is constructed
// once and passed by reference; there is no package-level instance.
type Store struct {
	fetcher fetch.Client
	logger  *zap.Logger

	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	sf        singleflight.Group
}

// NewStore creates an empty snapshot store using the given feed client.
func NewStore(fetcher fetch.Client, logger *zap.Logger) *Store {
	return &Store{
		fetcher:   fetcher,
		logger:    logger,
		snapshots: make(map[string]*Snapshot),
	}
}

// Load fetches every source of a snapshot and installs it under label.
// The load is all-or-nothing for mandatory sources: if any of them cannot be
// retrieved or decoded, the error is returned and the store keeps whatever
// snapshot was previously installed under the label. Optional sources fall
// back to empty. Concurrent loads of the same label are collapsed into one.
func (s *Store) Load(ctx context.Context, label string, sources []Source) error {
	_, err, _ := s.sf.Do(label, func() (any, error) {
		snap, err := s.fetchAll(ctx, label, sources)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.snapshots[label] = snap
		s.mu.Unlock()

		s.logger.Info("Snapshot loaded",
			zap.String("label", label),
			zap.Int("gdos_regions", len(snap.GDOSRegions)),
			zap.Int("zesty_records", len(snap.Zesty)),
		)
		return nil, nil
	})
	return err
}

// fetchAll retrieves all sources into a staging snapshot without touching the
// installed one.
func (s *Store) fetchAll(ctx context.Context, label string, sources []Source) (*Snapshot, error) {
	snap := &Snapshot{Label: label}

	for _, src := range sources {
		records, err := s.fetcher.FetchRecords(ctx, src.URL)
		if err != nil {
			if src.Optional {
				s.logger.Warn("Optional feed unavailable, defaulting to empty",
					zap.String("label", label),
					zap.String("source", src.Name),
					zap.Error(err),
				)
				records = nil
			} else {
				return nil, fmt.Errorf("snapshot %s: source %s: %w", label, src.Name, err)
			}
		}

		switch src.Kind {
		case KindGDOS:
			snap.GDOSRegions = append(snap.GDOSRegions, RegionFeed{
				Region:  src.Region,
				Records: records,
			})
		case KindZesty:
			snap.Zesty = append(snap.Zesty, records...)
		case KindScore:
			snap.Scores = append(snap.Scores, records...)
		}
	}

	snap.LoadedAt = time.Now()
	return snap, nil
}

// Get returns the snapshot installed under label.
func (s *Store) Get(label string) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[label]
	return snap, ok
}

// Labels returns the labels of all installed snapshots.
func (s *Store) Labels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	labels := make([]string, 0, len(s.snapshots))
	for label := range s.snapshots {
		labels = append(labels, label)
	}
	return labels
}

// CombinedGDOSRecords flattens all region feeds of a snapshot into one ordered
// sequence. Each record is shallow-copied and stamped with its region code
// under RegionField.
func (s *Store) CombinedGDOSRecords(label string) ([]map[string]any, error) {
	snap, ok := s.Get(label)
	if !ok {
		return nil, &NotLoadedError{Label: label}
	}

	var combined []map[string]any
	for _, feed := range snap.GDOSRegions {
		for _, rec := range feed.Records {
			tagged := make(map[string]any, len(rec)+1)
			for k, v := range rec {
				tagged[k] = v
			}
			tagged[RegionField] = feed.Region
			combined = append(combined, tagged)
		}
	}
	return combined, nil
}

// LookupMaps builds the entity-id lookup maps for a snapshot. GDOS records are
// keyed by their "id" field coerced to string; Zesty records by the nested
// linking id. Records missing their id are excluded, not an error. When an id
// occurs twice the first record wins, matching feed order.
func (s *Store) LookupMaps(label string) (*Maps, error) {
	combined, err := s.CombinedGDOSRecords(label)
	if err != nil {
		return nil, err
	}
	snap, _ := s.Get(label)

	maps := &Maps{
		GDOS:  make(map[string]map[string]any, len(combined)),
		Zesty: make(map[string]map[string]any, len(snap.Zesty)),
	}

	for _, rec := range combined {
		id, ok := rec[gdosIDField]
		if !ok || id == nil {
			continue
		}
		key := utils.ToString(id)
		if key == "" {
			continue
		}
		if _, exists := maps.GDOS[key]; !exists {
			maps.GDOS[key] = rec
		}
	}

	for _, rec := range snap.Zesty {
		id, ok := pathval.Lookup(rec, zestyIDPath)
		if !ok || id == nil {
			continue
		}
		key := utils.ToString(id)
		if key == "" {
			continue
		}
		if _, exists := maps.Zesty[key]; !exists {
			maps.Zesty[key] = rec
		}
	}

	return maps, nil
}
