package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"algotrader/src/handler"
)

func StartServer(port string) {
	r := Router()

	// Graceful server
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), GetConfig().ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}

// Router mounts the proxy endpoints consumed by the dashboard.
func Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"service": "algotrader", "status": "running"}`)); err != nil {
			logger.WithError(err).Error("\"/\" write error")
		}
	})
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("\"/api/health\" write error")
		}
	})

	r.Route("/api/dhanhq", func(r chi.Router) {
		r.Get("/sensex-price", handler.DefaultSensexPriceHandler())
		r.Get("/positions", handler.DefaultPositionsHandler())
		r.Get("/option-chain", handler.DefaultOptionChainHandler())
		r.Post("/place-order", handler.DefaultPlaceOrderHandler())
	})

	r.Post("/api/upstox/callback", handler.DefaultUpstoxCallbackHandler())

	return r
}
