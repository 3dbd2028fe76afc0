// Package server holds the HTTP server configuration.
//
// The main application entry point handles server startup; this package only
// defines the configuration structure: the listen port, the optional shared
// worker token, and the mutating-request body ceiling enforced by the
// correction store.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the correction-store feature to read its limits.
package server
