// Package comparison exposes the snapshot comparison workflow over HTTP for
// the browser dashboards.
//
// The workflow mirrors how staff actually work through the migration: load
// both configured snapshot versions, compare entities one by one, review the
// recommended fields, and record update intents. Pushing the resulting
// corrections to the correction store is the client's separate, explicit
// action (see the corrections feature).
//
// # Components
//
//   - Service: orchestrates the snapshot store, comparator, and planner.
//   - Handler: exposes the HTTP endpoints.
//   - DBAuditSink: optional GORM-backed durability for update records.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST /snapshots/load : load all configured snapshot labels.
//   - GET  /snapshots      : summarize the loaded snapshots.
//   - GET  /compare/:id    : comparison result for one entity.
//   - GET  /compare/stats  : aggregate counts and per-field change frequency.
//   - POST /updates        : record an update intent (audit entry).
//   - GET  /updates        : export the update history.
package comparison
