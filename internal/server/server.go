// Package server exposes the watch mode health endpoint
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-jobsift/internal/scheduler"
)

// StatusSource reports the latest scheduled run
type StatusSource interface {
	Status() scheduler.Status
}

func NewRouter(status StatusSource) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "jobsift is running!",
			"status":  "healthy",
		})
	})

	//503 when the last run failed so external monitors notice
	r.GET("/health", func(c *gin.Context) {
		s := status.Status()
		code := http.StatusOK
		state := "healthy"
		if s.LastError != "" {
			code = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(code, gin.H{
			"status": state,
			"run":    s,
		})
	})

	return r
}

// Serve runs the router on addr until ctx is done
func Serve(ctx context.Context, addr string, status StatusSource, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(status),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🌐 Health server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
