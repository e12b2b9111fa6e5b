// Package redis provides connection helpers for the go-redis client:
// retrying Connect from env-based configuration and a healthcheck closure
// for liveness probes. The distributed tenant-resolution cache in
// internal/storage builds on the returned client.
package redis
