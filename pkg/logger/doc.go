// Package logger builds configured slog.Logger instances with context-aware
// attribute injection.
//
// The factory applies functional options over production-safe defaults and
// wraps the handler so registered ContextExtractors run on every record,
// injecting request-scoped values such as the resolved store ID or the
// acting merchant ID:
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Environment, "quickstore"),
//	    logger.WithContextExtractors(
//	        tenant.LoggerExtractor(),
//	        billing.LoggerExtractor(),
//	    ),
//	)
package logger
