package corrections

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Service implements the merge, replace, and versioning semantics of the
// corrections document on top of a Store.
//
// PATCH is a read-modify-write without optimistic concurrency: concurrent
// deltas race and the last writer wins per key. The version returned with
// every response lets clients detect that their read went stale and re-fetch;
// the service itself never retries.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a corrections service over the given store.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Get returns the current corrections document.
func (s *Service) Get(ctx context.Context) (*Document, error) {
	return s.store.Load(ctx)
}

// Replace overwrites the stored corrections wholesale and stamps a new
// version.
func (s *Service) Replace(ctx context.Context, current map[string]any) (*Document, error) {
	doc := &Document{
		Current: current,
		Version: time.Now().UnixMilli(),
	}
	if doc.Current == nil {
		doc.Current = make(map[string]any)
	}
	if err := s.store.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("Corrections replaced",
		zap.Int("keys", len(doc.Current)),
		zap.Int64("version", doc.Version),
	)
	return doc, nil
}

// Merge applies a partial delta to the stored document key by key: an
// explicit JSON null deletes the key, anything else replaces or adds it.
// It returns the number of delta keys applied and the resulting document so
// callers can reconcile without a second round trip.
func (s *Service) Merge(ctx context.Context, delta map[string]json.RawMessage) (int, *Document, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return 0, nil, err
	}

	merged := 0
	for key, raw := range delta {
		if isJSONNull(raw) {
			delete(doc.Current, key)
			merged++
			continue
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return 0, nil, &InvalidPayloadError{Reason: "value for key " + key + ": " + err.Error()}
		}
		doc.Current[key] = value
		merged++
	}

	doc.Version = time.Now().UnixMilli()
	if err := s.store.Save(ctx, doc); err != nil {
		return 0, nil, err
	}

	s.logger.Info("Corrections merged",
		zap.Int("merged", merged),
		zap.Int("keys", len(doc.Current)),
		zap.Int64("version", doc.Version),
	)
	return merged, doc, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
