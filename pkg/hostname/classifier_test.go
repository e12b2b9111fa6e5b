package hostname_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quickstore/platform/pkg/hostname"
)

func newTestClassifier() *hostname.Classifier {
	return hostname.NewClassifier(hostname.Config{
		Suffix:         "quickstore.live",
		MainDomains:    []string{"quickstore.live", "www.quickstore.live", "api.quickstore.io"},
		ReservedLabels: []string{"www", "api", "app", "admin", "mail", "static"},
	})
}

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	c := newTestClassifier()

	t.Run("store subdomain", func(t *testing.T) {
		t.Parallel()

		res := c.Classify("acme.quickstore.live")
		assert.Equal(t, hostname.KindStoreSubdomain, res.Kind)
		assert.Equal(t, "acme", res.Label)
	})

	t.Run("main apex domain", func(t *testing.T) {
		t.Parallel()

		res := c.Classify("quickstore.live")
		assert.Equal(t, hostname.KindMain, res.Kind)
		assert.True(t, res.IsPlatform())
	})

	t.Run("main domain is case-insensitive", func(t *testing.T) {
		t.Parallel()

		res := c.Classify("QuickStore.Live")
		assert.Equal(t, hostname.KindMain, res.Kind)
	})

	t.Run("www under suffix routes as platform", func(t *testing.T) {
		t.Parallel()

		res := c.Classify("www.quickstore.live")
		assert.Equal(t, hostname.KindMain, res.Kind)
		assert.True(t, res.IsPlatform())
	})

	t.Run("reserved label is not a store", func(t *testing.T) {
		t.Parallel()

		res := c.Classify("api.quickstore.live")
		assert.Equal(t, hostname.KindReserved, res.Kind)
		assert.Equal(t, "api", res.Label)
		assert.True(t, res.IsPlatform())
	})

	t.Run("extra main domain outside suffix", func(t *testing.T) {
		t.Parallel()

		res := c.Classify("api.quickstore.io")
		assert.Equal(t, hostname.KindMain, res.Kind)
	})

	t.Run("custom domain", func(t *testing.T) {
		t.Parallel()

		res := c.Classify("shop.example.com")
		assert.Equal(t, hostname.KindCustomDomain, res.Kind)
		assert.Equal(t, "shop.example.com", res.Label)
		assert.False(t, res.IsPlatform())
	})

	t.Run("port stripped for comparison", func(t *testing.T) {
		t.Parallel()

		res := c.Classify("acme.quickstore.live:8080")
		assert.Equal(t, hostname.KindStoreSubdomain, res.Kind)
		assert.Equal(t, "acme", res.Label)
		assert.Equal(t, "acme.quickstore.live", res.Host)
	})

	t.Run("subdomain is lowercased", func(t *testing.T) {
		t.Parallel()

		res := c.Classify("ACME.Quickstore.Live")
		assert.Equal(t, hostname.KindStoreSubdomain, res.Kind)
		assert.Equal(t, "acme", res.Label)
	})

	t.Run("empty host falls back to main", func(t *testing.T) {
		t.Parallel()

		res := c.Classify("")
		assert.Equal(t, hostname.KindMain, res.Kind)
	})

	t.Run("trailing dot ignored", func(t *testing.T) {
		t.Parallel()

		res := c.Classify("acme.quickstore.live.")
		assert.Equal(t, hostname.KindStoreSubdomain, res.Kind)
		assert.Equal(t, "acme", res.Label)
	})

	t.Run("nested label stays a subdomain candidate", func(t *testing.T) {
		t.Parallel()

		// Lookup will fail later; classification itself never guesses.
		res := c.Classify("a.b.quickstore.live")
		assert.Equal(t, hostname.KindStoreSubdomain, res.Kind)
		assert.Equal(t, "a.b", res.Label)
	})

	t.Run("ipv6 literal with port", func(t *testing.T) {
		t.Parallel()

		res := c.Classify("[::1]:8080")
		assert.Equal(t, hostname.KindCustomDomain, res.Kind)
		assert.Equal(t, "::1", res.Host)
	})
}

func TestClassifier_SuffixBoundary(t *testing.T) {
	t.Parallel()

	c := newTestClassifier()

	// A domain that merely ends with the suffix text must not match the
	// suffix label boundary.
	res := c.Classify("evilquickstore.live")
	assert.Equal(t, hostname.KindCustomDomain, res.Kind)
	assert.Equal(t, "evilquickstore.live", res.Label)
}
