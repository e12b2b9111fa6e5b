package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickstore/platform/internal/handler"
	"github.com/quickstore/platform/internal/storage"
	"github.com/quickstore/platform/pkg/billing"
	"github.com/quickstore/platform/pkg/cookie"
	"github.com/quickstore/platform/pkg/tenant"
)

type mockStores struct {
	byID    map[uuid.UUID]*tenant.Store
	created []string
	count   int
}

func (m *mockStores) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Store, error) {
	if s, ok := m.byID[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, tenant.ErrStoreNotFound
}

func (m *mockStores) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]tenant.Store, error) {
	var out []tenant.Store
	for _, s := range m.byID {
		if s.MerchantID == merchantID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockStores) CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int, error) {
	return m.count, nil
}

func (m *mockStores) Create(ctx context.Context, merchantID uuid.UUID, name, subdomain string) (*tenant.Store, error) {
	for _, s := range m.byID {
		if s.Domain.Subdomain == subdomain {
			return nil, storage.ErrSubdomainTaken
		}
	}
	store := &tenant.Store{
		ID:         uuid.New(),
		MerchantID: merchantID,
		Name:       name,
		Status:     tenant.StatusDraft,
		Domain:     tenant.Domain{Subdomain: subdomain},
		CreatedAt:  time.Now().UTC(),
	}
	if m.byID == nil {
		m.byID = map[uuid.UUID]*tenant.Store{}
	}
	m.byID[store.ID] = store
	m.created = append(m.created, subdomain)
	return store, nil
}

func (m *mockStores) SetStatus(ctx context.Context, id uuid.UUID, status tenant.Status) (*tenant.Store, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, tenant.ErrStoreNotFound
	}
	s.Status = status
	copied := *s
	return &copied, nil
}

func (m *mockStores) SetCustomDomain(ctx context.Context, id uuid.UUID, domain string) (*tenant.Store, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, tenant.ErrStoreNotFound
	}
	s.Domain.CustomDomain = domain
	s.Domain.CustomDomainVerified = false
	copied := *s
	return &copied, nil
}

func (m *mockStores) MarkCustomDomainVerified(ctx context.Context, id uuid.UUID) (*tenant.Store, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, tenant.ErrStoreNotFound
	}
	s.Domain.CustomDomainVerified = true
	copied := *s
	return &copied, nil
}

type mockOrders struct {
	orders []storage.Order
}

func (m *mockOrders) Create(ctx context.Context, storeID uuid.UUID, total, fee billing.Money) (*storage.Order, error) {
	order := storage.Order{
		ID:        uuid.New(),
		StoreID:   storeID,
		Total:     total,
		Fee:       fee,
		CreatedAt: time.Now().UTC(),
	}
	m.orders = append(m.orders, order)
	return &order, nil
}

func (m *mockOrders) ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]storage.Order, error) {
	return m.orders, nil
}

type mockBillingRepo struct {
	subs    []billing.Subscription
	credits []billing.Money
}

func (m *mockBillingRepo) UpsertSubscription(ctx context.Context, sub billing.Subscription) (*billing.Subscription, error) {
	m.subs = append(m.subs, sub)
	return &sub, nil
}

func (m *mockBillingRepo) Credit(ctx context.Context, merchantID uuid.UUID, amount billing.Money) (*billing.Wallet, error) {
	m.credits = append(m.credits, amount)
	return &billing.Wallet{MerchantID: merchantID, Balance: amount}, nil
}

// fakeBillingSvc returns a fixed overview regardless of merchant.
type fakeBillingSvc struct {
	overview billing.Overview
	err      error
	plans    map[string]billing.Plan
}

func (f *fakeBillingSvc) Overview(ctx context.Context, merchantID uuid.UUID) (*billing.Overview, error) {
	if f.err != nil {
		return nil, f.err
	}
	copied := f.overview
	return &copied, nil
}

func (f *fakeBillingSvc) BlockingReasonFor(ctx context.Context, merchantID uuid.UUID) (billing.BlockingReason, error) {
	if f.err != nil {
		return billing.BlockingSubscriptionExpired, f.err
	}
	return f.overview.BlockingReason, nil
}

func (f *fakeBillingSvc) Plan(id string) (billing.Plan, bool) {
	p, ok := f.plans[id]
	return p, ok
}

func (f *fakeBillingSvc) Plans() map[string]billing.Plan {
	return f.plans
}

type recordingInvalidator struct {
	stores []*tenant.Store
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, store *tenant.Store) {
	r.stores = append(r.stores, store)
}

func testPlans() map[string]billing.Plan {
	return map[string]billing.Plan{
		"starter": {
			ID:     "starter",
			Name:   "Starter",
			Public: true,
			MonthlyPrice: billing.Money{
				Currency: "USD",
			},
			OrderFee:   billing.Money{Currency: "USD"},
			StoreLimit: 1,
		},
		"growth": {
			ID:           "growth",
			Name:         "Growth",
			Public:       true,
			MonthlyPrice: billing.Money{Amount: 2900, Currency: "USD"},
			OrderFee:     billing.Money{Amount: 100, Currency: "USD"},
			StoreLimit:   billing.Unlimited,
			TrialDays:    14,
		},
	}
}

type testEnv struct {
	router     http.Handler
	stores     *mockStores
	orders     *mockOrders
	repo       *mockBillingRepo
	svc        *fakeBillingSvc
	inv        *recordingInvalidator
	manager    *cookie.Manager
	merchantID uuid.UUID
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	manager, err := cookie.New([]string{"test-secret-key-minimum-32-chars-long"})
	require.NoError(t, err)

	env := &testEnv{
		stores:     &mockStores{byID: map[uuid.UUID]*tenant.Store{}},
		orders:     &mockOrders{},
		repo:       &mockBillingRepo{},
		svc:        &fakeBillingSvc{plans: testPlans()},
		inv:        &recordingInvalidator{},
		manager:    manager,
		merchantID: uuid.New(),
	}
	env.svc.overview = billing.Overview{
		SubscriptionStatus: billing.StatusActive,
		PlanID:             "growth",
		WalletBalance:      billing.Money{Amount: 5000, Currency: "USD"},
	}

	env.router = handler.Router(handler.RouterDeps{
		Billing:    handler.NewBillingHandler(env.svc, env.repo),
		Stores:     handler.NewStoreHandler(env.stores, env.orders, env.svc, env.inv),
		Storefront: handler.NewStorefrontHandler(env.orders),
		BillingSvc: env.svc,
		Session:    handler.MerchantSession(manager, "qs_session"),
	})

	return env
}

func (e *testEnv) request(t *testing.T, method, path string, body any, withSession bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, "http://quickstore.live"+path, &buf)
	if withSession {
		rec := httptest.NewRecorder()
		e.manager.SetSigned(rec, "qs_session", e.merchantID.String())
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestBillingOverviewEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("returns fresh overview for the session merchant", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		rec := env.request(t, http.MethodGet, "/api/billing/overview", nil, true)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data struct {
				BlockingReason     *string `json:"blocking_reason"`
				SubscriptionStatus string  `json:"subscription_status"`
				PlanID             string  `json:"plan_id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Nil(t, body.Data.BlockingReason)
		assert.Equal(t, "active", body.Data.SubscriptionStatus)
		assert.Equal(t, "growth", body.Data.PlanID)
	})

	t.Run("requires a session", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		rec := env.request(t, http.MethodGet, "/api/billing/overview", nil, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("reports billing unavailability", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		env.svc.err = billing.ErrBillingUnavailable

		rec := env.request(t, http.MethodGet, "/api/billing/overview", nil, true)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestPlansEndpoint(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	rec := env.request(t, http.MethodGet, "/api/billing/plans", nil, false)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []billing.Plan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	// Sorted by monthly price, free tier first.
	assert.Equal(t, "starter", body.Data[0].ID)
	assert.Equal(t, "growth", body.Data[1].ID)
}

func TestCreateStoreGating(t *testing.T) {
	t.Parallel()

	t.Run("allowed merchant creates a draft store", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		rec := env.request(t, http.MethodPost, "/api/stores", map[string]string{
			"name": "Acme Outfitters", "subdomain": "acme",
		}, true)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, []string{"acme"}, env.stores.created)
	})

	t.Run("blocked merchant gets 402 with the reason", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		env.svc.overview.BlockingReason = billing.BlockingSubscriptionExpired

		rec := env.request(t, http.MethodPost, "/api/stores", map[string]string{
			"name": "Acme", "subdomain": "acme",
		}, true)

		require.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Contains(t, rec.Body.String(), "SUBSCRIPTION_EXPIRED")
		assert.Contains(t, rec.Body.String(), "renew")
		assert.Empty(t, env.stores.created)
	})

	t.Run("low wallet blocks store creation", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		env.svc.overview.BlockingReason = billing.BlockingLowWallet

		rec := env.request(t, http.MethodPost, "/api/stores", map[string]string{
			"name": "Acme", "subdomain": "acme",
		}, true)

		require.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Contains(t, rec.Body.String(), "LOW_WALLET")
	})

	t.Run("store limit enforced from the plan", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		env.svc.overview.PlanID = "starter"
		env.stores.count = 1

		rec := env.request(t, http.MethodPost, "/api/stores", map[string]string{
			"name": "Second", "subdomain": "second",
		}, true)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "store_limit_reached")
	})

	t.Run("invalid subdomain rejected", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		rec := env.request(t, http.MethodPost, "/api/stores", map[string]string{
			"name": "Acme", "subdomain": "Not.Valid",
		}, true)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("duplicate subdomain conflicts", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		first := env.request(t, http.MethodPost, "/api/stores", map[string]string{
			"name": "Acme", "subdomain": "acme",
		}, true)
		require.Equal(t, http.StatusCreated, first.Code)

		second := env.request(t, http.MethodPost, "/api/stores", map[string]string{
			"name": "Copycat", "subdomain": "acme",
		}, true)
		assert.Equal(t, http.StatusConflict, second.Code)
	})
}

func TestRechargeExemption(t *testing.T) {
	t.Parallel()

	t.Run("low wallet does not block recharging", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		env.svc.overview.BlockingReason = billing.BlockingLowWallet

		rec := env.request(t, http.MethodPost, "/api/billing/wallet/recharge", map[string]any{
			"amount": 10000,
		}, true)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Len(t, env.repo.credits, 1)
		assert.Equal(t, int64(10000), env.repo.credits[0].Amount)
		assert.Equal(t, "USD", env.repo.credits[0].Currency)
	})

	t.Run("expired subscription still blocks recharging", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		env.svc.overview.BlockingReason = billing.BlockingSubscriptionExpired

		rec := env.request(t, http.MethodPost, "/api/billing/wallet/recharge", map[string]any{
			"amount": 10000,
		}, true)

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Empty(t, env.repo.credits)
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		rec := env.request(t, http.MethodPost, "/api/billing/wallet/recharge", map[string]any{
			"amount": 0,
		}, true)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestSubscribeEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("subscribing stays possible while expired", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		env.svc.overview.BlockingReason = billing.BlockingSubscriptionExpired

		rec := env.request(t, http.MethodPost, "/api/billing/subscribe", map[string]string{
			"plan_id": "growth",
		}, true)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Len(t, env.repo.subs, 1)
		assert.Equal(t, "growth", env.repo.subs[0].PlanID)
		// Growth has a trial, so the subscription starts trialing.
		assert.Equal(t, billing.StatusTrialing, env.repo.subs[0].Status)
		require.NotNil(t, env.repo.subs[0].TrialExpiresAt)
	})

	t.Run("unknown plan rejected", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		rec := env.request(t, http.MethodPost, "/api/billing/subscribe", map[string]string{
			"plan_id": "enterprise",
		}, true)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestStoreDomainManagement(t *testing.T) {
	t.Parallel()

	setupStore := func(t *testing.T, env *testEnv) *tenant.Store {
		t.Helper()
		store, err := env.stores.Create(context.Background(), env.merchantID, "Acme", "acme")
		require.NoError(t, err)
		return store
	}

	t.Run("attaching a domain resets verification and invalidates cache", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		store := setupStore(t, env)

		rec := env.request(t, http.MethodPut, "/api/stores/"+store.ID.String()+"/domain", map[string]string{
			"domain": "shop.acme.com",
		}, true)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body struct {
			Data tenant.Store `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "shop.acme.com", body.Data.Domain.CustomDomain)
		assert.False(t, body.Data.Domain.CustomDomainVerified)

		// Old and new host keys both dropped.
		require.Len(t, env.inv.stores, 2)
	})

	t.Run("verification flips the flag", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		store := setupStore(t, env)
		_, err := env.stores.SetCustomDomain(context.Background(), store.ID, "shop.acme.com")
		require.NoError(t, err)

		rec := env.request(t, http.MethodPost, "/api/stores/"+store.ID.String()+"/domain/verify", nil, true)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data tenant.Store `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Data.Domain.CustomDomainVerified)
		assert.NotEmpty(t, env.inv.stores)
	})

	t.Run("verify without a domain fails", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		store := setupStore(t, env)

		rec := env.request(t, http.MethodPost, "/api/stores/"+store.ID.String()+"/domain/verify", nil, true)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("publishing invalidates cached resolutions", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		store := setupStore(t, env)

		rec := env.request(t, http.MethodPut, "/api/stores/"+store.ID.String()+"/status", map[string]string{
			"status": "live",
		}, true)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, env.inv.stores, 1)
		assert.Equal(t, tenant.StatusLive, env.inv.stores[0].Status)
	})

	t.Run("foreign stores are invisible", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		other := uuid.New()
		store, err := env.stores.Create(context.Background(), other, "Theirs", "theirs")
		require.NoError(t, err)

		rec := env.request(t, http.MethodPut, "/api/stores/"+store.ID.String()+"/status", map[string]string{
			"status": "live",
		}, true)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCreateOrderRecordsPlanFee(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	store, err := env.stores.Create(context.Background(), env.merchantID, "Acme", "acme")
	require.NoError(t, err)

	rec := env.request(t, http.MethodPost, "/api/stores/"+store.ID.String()+"/orders", map[string]any{
		"amount": 4999,
	}, true)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, env.orders.orders, 1)
	assert.Equal(t, int64(4999), env.orders.orders[0].Total.Amount)
	// Growth plan charges 100 per order.
	assert.Equal(t, int64(100), env.orders.orders[0].Fee.Amount)
}

func TestStorefrontRoutes(t *testing.T) {
	t.Parallel()

	store := &tenant.Store{
		ID:     uuid.New(),
		Name:   "Acme Outfitters",
		Status: tenant.StatusLive,
		Domain: tenant.Domain{Subdomain: "acme"},
	}

	t.Run("serves the resolved store", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)

		req := httptest.NewRequest(http.MethodGet, "http://quickstore.live/store/acme/", nil)
		req = req.WithContext(tenant.WithStore(req.Context(), store))

		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Acme Outfitters")
	})

	t.Run("rejects store paths without a resolved store", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)
		rec := env.request(t, http.MethodGet, "/store/acme/", nil, false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("checkout records a feeless order for settlement", func(t *testing.T) {
		t.Parallel()

		env := setupEnv(t)

		body := bytes.NewBufferString(`{"amount": 2500, "currency": "USD"}`)
		req := httptest.NewRequest(http.MethodPost, "http://quickstore.live/store/acme/checkout", body)
		req = req.WithContext(tenant.WithStore(req.Context(), store))

		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.Len(t, env.orders.orders, 1)
		assert.Equal(t, store.ID, env.orders.orders[0].StoreID)
		assert.Zero(t, env.orders.orders[0].Fee.Amount)
	})
}

func TestStoreNotFoundPage(t *testing.T) {
	t.Parallel()

	h := handler.StoreNotFound("")

	req := httptest.NewRequest(http.MethodGet, "http://ghost.quickstore.live/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "ghost.quickstore.live")
	assert.Contains(t, rec.Body.String(), "Open your own store")
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	env := setupEnv(t)
	rec := env.request(t, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMerchantSession(t *testing.T) {
	t.Parallel()

	manager, err := cookie.New([]string{"test-secret-key-minimum-32-chars-long"})
	require.NoError(t, err)

	merchantID := uuid.New()
	var got uuid.UUID
	var ok bool

	mw := handler.MerchantSession(manager, "qs_session")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = billing.MerchantIDFromContext(r.Context())
	})

	t.Run("valid signed session sets the merchant", func(t *testing.T) {
		rec := httptest.NewRecorder()
		manager.SetSigned(rec, "qs_session", merchantID.String())

		req := httptest.NewRequest(http.MethodGet, "http://quickstore.live/", nil)
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}

		mw(next).ServeHTTP(httptest.NewRecorder(), req)
		require.True(t, ok)
		assert.Equal(t, merchantID, got)
	})

	t.Run("tampered cookie leaves the request anonymous", func(t *testing.T) {
		got, ok = uuid.Nil, false

		req := httptest.NewRequest(http.MethodGet, "http://quickstore.live/", nil)
		req.AddCookie(&http.Cookie{Name: "qs_session", Value: merchantID.String()})

		mw(next).ServeHTTP(httptest.NewRecorder(), req)
		assert.False(t, ok)
	})
}
