package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickstore/platform/pkg/cookie"
)

const testSecret = "test-secret-key-minimum-32-chars-long"

func requestWithCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty secrets", func(t *testing.T) {
		t.Parallel()

		_, err := cookie.New(nil)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)

		_, err = cookie.New([]string{"", ""})
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("rejects short secrets", func(t *testing.T) {
		t.Parallel()

		_, err := cookie.New([]string{"too-short"})
		assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
	})
}

func TestSignedRoundTrip(t *testing.T) {
	t.Parallel()

	manager, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	manager.SetSigned(rec, "qs_session", "session-123")

	value, err := manager.GetSigned(requestWithCookie(t, rec), "qs_session")
	require.NoError(t, err)
	assert.Equal(t, "session-123", value)
}

func TestSignedRejectsTampering(t *testing.T) {
	t.Parallel()

	manager, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	manager.SetSigned(rec, "qs_session", "session-123")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	t.Run("modified signature", func(t *testing.T) {
		tampered := *cookies[0]
		tampered.Value = tampered.Value[:len(tampered.Value)-4] + "AAAA"

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&tampered)

		_, err := manager.GetSigned(req, "qs_session")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("missing signature separator", func(t *testing.T) {
		tampered := *cookies[0]
		tampered.Value = strings.ReplaceAll(tampered.Value, "|", "")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&tampered)

		_, err := manager.GetSigned(req, "qs_session")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})

	t.Run("plain unsigned value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "qs_session", Value: "session-123"})

		_, err := manager.GetSigned(req, "qs_session")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})
}

func TestKeyRotation(t *testing.T) {
	t.Parallel()

	oldSecret := "old-secret-key-minimum-32-chars-long!"
	newSecret := "new-secret-key-minimum-32-chars-long!"

	oldManager, err := cookie.New([]string{oldSecret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	oldManager.SetSigned(rec, "qs_session", "session-123")

	// A manager holding both secrets still accepts the old cookie.
	rotated, err := cookie.New([]string{newSecret, oldSecret})
	require.NoError(t, err)

	value, err := rotated.GetSigned(requestWithCookie(t, rec), "qs_session")
	require.NoError(t, err)
	assert.Equal(t, "session-123", value)

	// Without the old secret the cookie is rejected.
	newOnly, err := cookie.New([]string{newSecret})
	require.NoError(t, err)

	_, err = newOnly.GetSigned(requestWithCookie(t, rec), "qs_session")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
}

func TestGet(t *testing.T) {
	t.Parallel()

	manager, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := manager.Get(req, "missing")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("plain round trip", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		manager.Set(rec, "theme", "dark")

		value, err := manager.Get(requestWithCookie(t, rec), "theme")
		require.NoError(t, err)
		assert.Equal(t, "dark", value)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	manager, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	manager.Delete(rec, "qs_session")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "qs_session", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	manager, err := cookie.New([]string{testSecret},
		cookie.WithSecure(true),
		cookie.WithDomain(".quickstore.live"),
	)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	manager.Set(rec, "qs_session", "v", cookie.WithMaxAge(3600))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, "quickstore.live", strings.TrimPrefix(cookies[0].Domain, "."))
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("parses comma separated secrets", func(t *testing.T) {
		t.Parallel()

		cfg := cookie.Config{
			Secrets:  testSecret + " , " + "second-secret-key-minimum-32-chars!!",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}

		manager, err := cookie.NewFromConfig(cfg)
		require.NoError(t, err)
		assert.NotNil(t, manager)
	})

	t.Run("empty secrets fail", func(t *testing.T) {
		t.Parallel()

		_, err := cookie.NewFromConfig(cookie.Config{})
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})
}
