// Package storage implements the PostgreSQL repositories behind the tenant
// and billing packages, plus a Redis-backed distributed cache for tenant
// resolution. Repositories translate driver-level errors into the sentinel
// errors their consuming packages document.
package storage
