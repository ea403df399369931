package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lectio/internal/api"
	"github.com/abhisek/lectio/internal/auth"
	"github.com/abhisek/lectio/internal/config"
	"github.com/abhisek/lectio/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromEnv()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTPAddr = addr
		}
		if cfg.JWTSecret == "" {
			return errors.New("LECTIO_JWT_SECRET must be set")
		}

		if d, _ := cmd.Flags().GetString("db-driver"); d == "" {
			_ = cmd.Flags().Set("db-driver", cfg.DBDriver)
		}
		if d, _ := cmd.Flags().GetString("db"); d == "" && store.Driver(cfg.DBDriver) == store.DriverPostgres {
			_ = cmd.Flags().Set("db", cfg.DBDSN)
		}
		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		authCfg := auth.DefaultConfig()
		authCfg.Secret = cfg.JWTSecret
		authCfg.TokenTTL = cfg.TokenTTL
		svc, err := buildServices(cmd.Context(), st, authCfg)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr: cfg.HTTPAddr,
			Handler: api.NewRouter(api.Options{
				Auth:        svc.auth,
				Users:       st.UserRepo(),
				Practice:    svc.practice,
				CORSOrigins: cfg.CORSOrigins,
				Timeout:     cfg.RequestTimeout,
				Logger:      true,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			log.Printf("lectio API listening on %s (db: %s)", cfg.HTTPAddr, st.Driver())
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides LECTIO_HTTP_ADDR)")
}
