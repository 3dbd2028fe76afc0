package comparison

import (
	"location-manager/core/compare"
	"location-manager/core/planner"
	"location-manager/core/snapshot"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature wires the snapshot store, comparator, and planner into the
// comparison feature. db may be nil; update history is then memory-only.
func NewFeature(store *snapshot.Store, cfg snapshot.Config, db *gorm.DB, logger *zap.Logger) (*Feature, error) {
	comparator := compare.New(store, cfg.OlderLabel, cfg.NewerLabel, compare.DefaultFields)

	var sink planner.AuditSink
	if db != nil {
		dbSink, err := NewDBAuditSink(db)
		if err != nil {
			return nil, err
		}
		sink = dbSink
	}

	pl := planner.New(comparator, sink)
	svc := NewService(store, comparator, pl, cfg, logger)
	h := NewHandler(svc, logger)
	return &Feature{service: svc, handler: h}, nil
}

// Service exposes the feature's service for CLI use.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "comparison"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
