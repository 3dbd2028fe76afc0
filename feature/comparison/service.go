package comparison

import (
	"context"
	"errors"
	"fmt"
	"time"

	"location-manager/core/compare"
	"location-manager/core/planner"
	"location-manager/core/snapshot"

	"go.uber.org/zap"
)

// ErrUnknownTarget reports an update request against a snapshot label that is
// not part of the configured version pair.
var ErrUnknownTarget = errors.New("unknown target snapshot")

// SnapshotInfo summarizes one loaded snapshot for the dashboards.
type SnapshotInfo struct {
	Label        string    `json:"label"`
	LoadedAt     time.Time `json:"loaded_at"`
	GDOSRegions  int       `json:"gdos_regions"`
	ZestyRecords int       `json:"zesty_records"`
}

// Service orchestrates snapshot loading, comparison, and update planning for
// the HTTP surface consumed by the browser dashboards.
type Service struct {
	store      *snapshot.Store
	comparator *compare.Comparator
	planner    *planner.Planner
	cfg        snapshot.Config
	logger     *zap.Logger
}

// NewService creates the comparison service.
func NewService(store *snapshot.Store, comparator *compare.Comparator, pl *planner.Planner, cfg snapshot.Config, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		comparator: comparator,
		planner:    pl,
		cfg:        cfg,
		logger:     logger,
	}
}

// LoadAll loads every configured snapshot label. A failing label aborts the
// whole operation so the dashboards never see a half-loaded version pair.
// On success the comparison cache is cleared: cached results must never
// outlive the snapshots they were computed from.
func (s *Service) LoadAll(ctx context.Context) error {
	for _, label := range s.cfg.Labels() {
		if err := s.store.Load(ctx, label, s.cfg.Sources(label)); err != nil {
			return err
		}
	}
	s.comparator.ClearCache()
	return nil
}

// Compare returns the (possibly cached) comparison result for one entity.
func (s *Service) Compare(entityID string) (*compare.Result, error) {
	return s.comparator.CompareEntity(entityID)
}

// Stats returns the planner's aggregate counts.
func (s *Service) Stats() (*planner.Stats, error) {
	return s.planner.Stats()
}

// ApplyUpdate records an update intent for the selected fields of an entity.
func (s *Service) ApplyUpdate(ctx context.Context, entityID string, fields []string, targetLabel string) (*planner.UpdateRecord, error) {
	known := false
	for _, label := range s.cfg.Labels() {
		if label == targetLabel {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w %q", ErrUnknownTarget, targetLabel)
	}
	return s.planner.Apply(ctx, entityID, fields, targetLabel)
}

// History returns the append-only update history.
func (s *Service) History() []*planner.UpdateRecord {
	return s.planner.History()
}

// Snapshots summarizes the currently loaded snapshots in configured order.
func (s *Service) Snapshots() []SnapshotInfo {
	var infos []SnapshotInfo
	for _, label := range s.cfg.Labels() {
		snap, ok := s.store.Get(label)
		if !ok {
			continue
		}
		zesty := len(snap.Zesty)
		infos = append(infos, SnapshotInfo{
			Label:        snap.Label,
			LoadedAt:     snap.LoadedAt,
			GDOSRegions:  len(snap.GDOSRegions),
			ZestyRecords: zesty,
		})
	}
	return infos
}
