// Package hostname classifies inbound Host headers for multi-tenant routing.
//
// Every request to the platform arrives on one of four host shapes: the
// platform's own domains, a reserved utility subdomain, a store subdomain
// under the platform suffix, or a merchant-owned custom domain. The
// Classifier turns the raw Host header into one of those shapes using only
// configured string matching - no network or database access - so the result
// is deterministic and unit-testable with plain strings.
//
// # Usage
//
//	c := hostname.NewClassifier(hostname.Config{
//	    Suffix:      "quickstore.live",
//	    MainDomains: []string{"quickstore.live", "www.quickstore.live"},
//	})
//
//	res := c.Classify(r.Host)
//	switch res.Kind {
//	case hostname.KindStoreSubdomain:
//	    // res.Label holds the candidate subdomain
//	case hostname.KindCustomDomain:
//	    // res.Label holds the full candidate domain
//	}
//
// Malformed or empty hosts classify as KindMain so the request falls through
// to platform routing instead of erroring.
package hostname
