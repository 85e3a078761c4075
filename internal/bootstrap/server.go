package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vmaslov/flightbooking/config"
)

// Run serves the router and blocks until the context is cancelled or the
// server fails. Shutdown drains in-flight requests for up to 5 seconds.
func Run(ctx context.Context, cfg config.HTTPConfig, router *gin.Engine, logger zerolog.Logger) error {
	if cfg.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", cfg.Address).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
