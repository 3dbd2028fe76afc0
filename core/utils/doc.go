// Package utils provides common utility functions for the location manager.
// It includes helper functions for type conversion shared by the snapshot,
// comparison, and correction packages, which all deal with loosely-typed
// JSON records whose ids may arrive as numbers or strings.
package utils
