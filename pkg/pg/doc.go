// Package pg provides PostgreSQL connection helpers for the platform:
// pool construction with retry, goose migrations bridged to pgx, health
// checks, and error classification helpers for common SQLSTATE conditions.
package pg
