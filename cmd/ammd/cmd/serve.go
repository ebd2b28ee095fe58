package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/paw-chain/cpamm/app"
	"github.com/paw-chain/cpamm/x/amm/client/rest"
)

// newRouter serves the AMM queries and the Prometheus metrics of a.
func newRouter(a *app.App) *mux.Router {
	router := mux.NewRouter()
	rest.NewHandler(a.QueryServer(), a.NewContext, a.Logger()).RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return router
}

// ServeCmd serves read-only queries and metrics over HTTP until interrupted.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pool queries and Prometheus metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, nc, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			handler := rest.Wrap(ctx, newRouter(a), rest.MiddlewareConfig{
				AllowedOrigins:    nc.Config.CORSAllowedOrigins,
				RequestsPerSecond: nc.Config.RateLimitRPS,
				Burst:             nc.Config.RateLimitBurst,
			}, nc.Logger)

			server := &http.Server{
				Addr:              nc.Config.ListenAddr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				nc.Logger.Info("serving", "addr", server.Addr, "height", a.LastBlockHeight())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			nc.Logger.Info("shutting down")
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String(flagListenAddr, "", "address to listen on (default from config)")

	return cmd
}
