package hostname

import (
	"strings"
)

// Kind identifies the routing class of an inbound host.
type Kind string

const (
	// KindMain is the platform's own domain (apex, www, API host).
	KindMain Kind = "main"
	// KindReserved is a utility subdomain under the platform suffix
	// (www, api, ...). Routed the same way as KindMain.
	KindReserved Kind = "reserved"
	// KindStoreSubdomain is a candidate store subdomain under the
	// platform suffix.
	KindStoreSubdomain Kind = "store_subdomain"
	// KindCustomDomain is a host outside the platform suffix, a candidate
	// merchant-owned custom domain.
	KindCustomDomain Kind = "custom_domain"
)

// Classification is the result of classifying a Host header.
type Classification struct {
	Kind Kind
	// Label is the candidate store subdomain for KindStoreSubdomain, or the
	// full candidate domain for KindCustomDomain. Empty otherwise.
	Label string
	// Host is the normalized host (lowercased, port stripped).
	Host string
}

// IsPlatform reports whether the host routes to platform pages rather
// than a tenant storefront.
func (c Classification) IsPlatform() bool {
	return c.Kind == KindMain || c.Kind == KindReserved
}

// Config describes the platform's domain topology.
type Config struct {
	// Suffix is the domain under which all store subdomains live,
	// e.g. "quickstore.live".
	Suffix string `env:"PLATFORM_SUFFIX,required"`
	// MainDomains are exact hosts served as the platform itself. The suffix
	// apex and its www variant are always included.
	MainDomains []string `env:"PLATFORM_MAIN_DOMAINS" envSeparator:","`
	// ReservedLabels are subdomain labels that never identify a store.
	ReservedLabels []string `env:"PLATFORM_RESERVED_LABELS" envDefault:"www,api,app,admin,mail,static" envSeparator:","`
}

// Classifier classifies Host headers against a fixed domain topology.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	suffix   string
	main     map[string]struct{}
	reserved map[string]struct{}
}

// NewClassifier builds a Classifier from the given config. All configured
// values are normalized to lowercase; the suffix apex and "www" apex are
// always treated as main domains.
func NewClassifier(cfg Config) *Classifier {
	suffix := normalizeHost(cfg.Suffix)

	main := make(map[string]struct{}, len(cfg.MainDomains)+2)
	if suffix != "" {
		main[suffix] = struct{}{}
		main["www."+suffix] = struct{}{}
	}
	for _, d := range cfg.MainDomains {
		if d = normalizeHost(d); d != "" {
			main[d] = struct{}{}
		}
	}

	reserved := make(map[string]struct{}, len(cfg.ReservedLabels))
	for _, l := range cfg.ReservedLabels {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			reserved[l] = struct{}{}
		}
	}

	return &Classifier{suffix: suffix, main: main, reserved: reserved}
}

// Classify determines the routing class of a raw Host header.
//
// The port is stripped and the host lowercased before comparison. An empty
// or unparseable host classifies as KindMain so callers fall through to
// platform routing instead of failing the request.
func (c *Classifier) Classify(hostHeader string) Classification {
	host := normalizeHost(hostHeader)
	if host == "" {
		return Classification{Kind: KindMain, Host: host}
	}

	if _, ok := c.main[host]; ok {
		return Classification{Kind: KindMain, Host: host}
	}

	if c.suffix != "" && strings.HasSuffix(host, "."+c.suffix) {
		label := host[:len(host)-len(c.suffix)-1]
		if _, ok := c.reserved[label]; ok {
			return Classification{Kind: KindReserved, Label: label, Host: host}
		}
		return Classification{Kind: KindStoreSubdomain, Label: label, Host: host}
	}

	return Classification{Kind: KindCustomDomain, Label: host, Host: host}
}

// normalizeHost lowercases the host and strips the port and any trailing dot.
// Comparison always happens on the portless form; callers that need the port
// for redirects keep the original header.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))

	// Strip port, accounting for bracketed IPv6 literals.
	if strings.HasPrefix(host, "[") {
		if idx := strings.LastIndex(host, "]"); idx != -1 {
			host = host[1:idx]
		}
	} else if idx := strings.LastIndex(host, ":"); idx != -1 && strings.Count(host, ":") == 1 {
		host = host[:idx]
	}

	return strings.TrimSuffix(host, ".")
}
