// Package httpserver wraps net/http.Server with graceful shutdown, env
// based configuration, and healthcheck plumbing.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
package httpserver
