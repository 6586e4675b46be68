package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/speakwell-backend/internal/app"
	"github.com/yungbote/speakwell-backend/internal/platform/envutil"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, envutil.Bool("DB_AUTOMIGRATE", true))
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return application.Run(gctx)
	})

	// METRICS_ADDR moves /metrics onto its own listener, away from the public port.
	if addr := envutil.String("METRICS_ADDR", ""); addr != "" && application.Metrics != nil {
		srv := &http.Server{Addr: addr, Handler: application.Metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			application.Log.Info("metrics listener", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		application.Log.Error("server stopped", "error", err)
		application.Close()
		os.Exit(1)
	}
	application.Log.Info("server stopped")
}
