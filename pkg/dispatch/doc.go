// Package dispatch wires the tenant pipeline into HTTP middleware: bypass
// checks, hostname classification, tenant resolution, and the path rewrite
// that drops a request into its storefront's rendering context.
//
// The pipeline runs strictly in order for every request. Bypass rules are
// checked first, before classification even happens, because internal
// framework paths, API routes, static assets, and partial-navigation
// fetches must never be tenant-rewritten. Platform hosts pass through
// unmodified. Resolved tenants get their path rewritten from P to
// /store/{subdomain}{P} with the query string preserved verbatim.
//
// # Usage
//
//	router.Use(dispatch.Middleware(classifier, resolver,
//	    dispatch.WithNotFoundHandler(storeNotFound),
//	))
//
// Rewriting is applied exactly once per request: already rewritten /store/
// paths fall under the bypass rules, so the middleware never recurses on
// its own output.
package dispatch
