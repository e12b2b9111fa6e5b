package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quickstore/platform/pkg/billing"
	"github.com/quickstore/platform/pkg/httpserver"
	"github.com/quickstore/platform/pkg/requestid"
)

// RouterDeps carries everything the platform router mounts.
type RouterDeps struct {
	Billing    *BillingHandler
	Stores     *StoreHandler
	Storefront *StorefrontHandler
	BillingSvc billing.Service

	// Session turns the signed session cookie into a merchant ID in
	// context. Built with MerchantSession.
	Session func(http.Handler) http.Handler

	// Gate and Dispatch are mounted outermost: auth redirects first, then
	// host-based path rewriting.
	Gate     func(http.Handler) http.Handler
	Dispatch func(http.Handler) http.Handler

	Healthchecks map[string]httpserver.HealthCheck
}

// Router assembles the platform's full HTTP surface. The dispatch middleware
// wraps the whole tree so tenant hosts are rewritten into /store/{subdomain}
// paths before routing; its bypass rules keep /api and static paths on the
// platform router regardless of host.
func Router(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)

	if deps.Session != nil {
		r.Use(deps.Session)
	}
	if deps.Gate != nil {
		r.Use(deps.Gate)
	}

	r.Get("/health", httpserver.HealthcheckHandler(deps.Healthchecks))

	r.Route("/api", func(api chi.Router) {
		api.Route("/billing", func(b chi.Router) {
			b.Get("/overview", deps.Billing.Overview)
			b.Get("/plans", deps.Billing.Plans)

			// Subscribe stays reachable for expired merchants: renewal is
			// the remedy the blocking reason points at.
			b.With(billing.RequireUnblocked(deps.BillingSvc,
				billing.WithExemptReasons(billing.BlockingLowWallet, billing.BlockingSubscriptionExpired),
			)).Post("/subscribe", deps.Billing.Subscribe)

			b.With(billing.RequireUnblocked(deps.BillingSvc,
				billing.WithExemptReasons(billing.BlockingLowWallet),
			)).Post("/wallet/recharge", deps.Billing.Recharge)
		})

		api.Route("/stores", func(s chi.Router) {
			s.Get("/", deps.Stores.List)
			s.With(billing.RequireUnblocked(deps.BillingSvc)).Post("/", deps.Stores.Create)

			s.Route("/{id}", func(one chi.Router) {
				one.Put("/status", deps.Stores.SetStatus)
				one.Put("/domain", deps.Stores.SetCustomDomain)
				one.Post("/domain/verify", deps.Stores.VerifyCustomDomain)
				one.Get("/orders", deps.Stores.ListOrders)
				one.With(billing.RequireUnblocked(deps.BillingSvc)).Post("/orders", deps.Stores.CreateOrder)
			})
		})
	})

	r.Mount("/store/{subdomain}", deps.Storefront.Routes())

	var h http.Handler = r
	if deps.Dispatch != nil {
		h = deps.Dispatch(h)
	}
	return h
}
