// Package requestid assigns a unique ID to every HTTP request and threads
// it through the context so log records across the middleware chain can be
// correlated.
package requestid
