package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/quickstore/platform/internal/handler"
	"github.com/quickstore/platform/internal/storage"
	"github.com/quickstore/platform/pkg/authgate"
	"github.com/quickstore/platform/pkg/billing"
	"github.com/quickstore/platform/pkg/config"
	"github.com/quickstore/platform/pkg/cookie"
	"github.com/quickstore/platform/pkg/dispatch"
	"github.com/quickstore/platform/pkg/hostname"
	"github.com/quickstore/platform/pkg/httpserver"
	"github.com/quickstore/platform/pkg/logger"
	"github.com/quickstore/platform/pkg/pg"
	qsredis "github.com/quickstore/platform/pkg/redis"
	"github.com/quickstore/platform/pkg/requestid"
	"github.com/quickstore/platform/pkg/tenant"
)

// appConfig holds service-level settings not owned by a package config.
type appConfig struct {
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	TenantCacheTTL   time.Duration `env:"TENANT_CACHE_TTL" envDefault:"60s"`
	PlansPath        string        `env:"BILLING_PLANS_PATH" envDefault:"plans.yml"`
	MinWalletReserve int64         `env:"BILLING_MIN_WALLET_RESERVE" envDefault:"0"`
	SignupURL        string        `env:"SIGNUP_URL" envDefault:""`
	SessionCookie    string        `env:"SESSION_COOKIE" envDefault:"qs_session"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg    appConfig
		hostCfg   hostname.Config
		pgCfg     pg.Config
		redisCfg  qsredis.Config
		httpCfg   httpserver.Config
		cookieCfg cookie.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&appCfg) },
		func() error { return config.Load(&hostCfg) },
		func() error { return config.Load(&pgCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&cookieCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	log := logger.New(
		logger.WithEnvironment(appCfg.Environment, "platform"),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			tenant.LoggerExtractor(),
			billing.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	redisClient, err := qsredis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close redis client", logger.Error(err))
		}
	}()

	cookieManager, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return err
	}

	// Repositories and domain services.
	stores := storage.NewStoreRepository(pool)
	orders := storage.NewOrderRepository(pool)
	billingRepo := storage.NewBillingRepository(pool)

	billingSvc, err := billing.NewService(ctx,
		billing.NewYAMLPlanSource(appCfg.PlansPath),
		billingRepo, billingRepo,
		billing.WithMinWalletReserve(appCfg.MinWalletReserve),
	)
	if err != nil {
		return err
	}

	classifier := hostname.NewClassifier(hostCfg)
	resolver := tenant.NewResolver(stores,
		tenant.WithCache(storage.NewRedisTenantCache(redisClient, log)),
		tenant.WithCacheTTL(appCfg.TenantCacheTTL),
	)
	defer func() {
		if err := resolver.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close tenant resolver", logger.Error(err))
		}
	}()

	router := handler.Router(handler.RouterDeps{
		Billing:    handler.NewBillingHandler(billingSvc, billingRepo),
		Stores:     handler.NewStoreHandler(stores, orders, billingSvc, resolver),
		Storefront: handler.NewStorefrontHandler(orders),
		BillingSvc: billingSvc,
		Session:    handler.MerchantSession(cookieManager, appCfg.SessionCookie),
		Gate: authgate.Middleware(
			authgate.SignedCookieTokenCheck(cookieManager, appCfg.SessionCookie),
		),
		Dispatch: dispatch.Middleware(classifier, resolver,
			dispatch.WithNotFoundHandler(handler.StoreNotFound(appCfg.SignupURL)),
			dispatch.WithLogger(log),
		),
		Healthchecks: map[string]httpserver.HealthCheck{
			"postgres": pg.Healthcheck(pool),
			"redis":    qsredis.Healthcheck(redisClient),
		},
	})

	log.InfoContext(ctx, "starting server",
		slog.String("addr", httpCfg.Addr),
		slog.String("platform_suffix", hostCfg.Suffix),
	)

	server := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return server.Run(ctx, router)
}
