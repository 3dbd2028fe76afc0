// Package database handles the optional database connection used for durable
// update-history persistence.
//
// It provides a wrapper around GORM to properly configure MySQL connections
// based on the application's configuration. The connection is optional: when
// no database is reachable the planner keeps its history in memory only, and
// the rest of the application is unaffected.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("audit persistence disabled", zap.Error(err))
//	}
package database
