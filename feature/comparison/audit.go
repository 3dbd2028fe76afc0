package comparison

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"location-manager/core/planner"

	"gorm.io/gorm"
)

// UpdateHistoryEntry is the database row mirroring one planner update record.
// The in-memory history stays authoritative for the session; rows only add
// durability across restarts.
type UpdateHistoryEntry struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	EntityID       string    `gorm:"column:entity_id;size:64;index"`
	TargetSnapshot string    `gorm:"column:target_snapshot;size:64"`
	Fields         string    `gorm:"column:fields;type:text"`
	Values         string    `gorm:"column:field_values;type:text"`
	AppliedAt      time.Time `gorm:"column:applied_at"`
}

// TableName specifies the table name.
func (UpdateHistoryEntry) TableName() string {
	return "update_history"
}

// DBAuditSink persists planner update records through GORM.
type DBAuditSink struct {
	db *gorm.DB
}

// NewDBAuditSink creates the sink and migrates its table.
func NewDBAuditSink(db *gorm.DB) (*DBAuditSink, error) {
	if err := db.AutoMigrate(&UpdateHistoryEntry{}); err != nil {
		return nil, fmt.Errorf("migrate update_history: %w", err)
	}
	return &DBAuditSink{db: db}, nil
}

// Record implements planner.AuditSink.
func (s *DBAuditSink) Record(ctx context.Context, rec *planner.UpdateRecord) error {
	fields, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	values, err := json.Marshal(rec.Values)
	if err != nil {
		return fmt.Errorf("encode values: %w", err)
	}
	appliedAt, err := time.Parse(time.RFC3339, rec.AppliedAt)
	if err != nil {
		appliedAt = time.Now().UTC()
	}

	entry := &UpdateHistoryEntry{
		EntityID:       rec.EntityID,
		TargetSnapshot: rec.TargetSnapshot,
		Fields:         string(fields),
		Values:         string(values),
		AppliedAt:      appliedAt,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("insert update_history row: %w", err)
	}
	return nil
}
