package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vcePortalApi/internal/api"
	"vcePortalApi/internal/portal"
	"vcePortalApi/internal/store"
)

const shutdownTimeout = 10 * time.Second

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, err := store.Open(cfg.Cache.Path)
	if err != nil {
		return err
	}
	defer cache.Close()

	client, err := portal.NewClient(cfg.PortalConfig(), log)
	if err != nil {
		return err
	}

	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := api.NewServer(client, cache, log, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DashboardTTL:   cfg.DashboardTTL(),
		LoginTTL:       cfg.LoginTTL(),
	})

	addr := cfg.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go purgeLoop(ctx, cache, cfg.PurgeInterval(), cfg.DashboardTTL(), cfg.LoginTTL(), log)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

type purger interface {
	Purge(dashboardTTL, loginTTL time.Duration) (int64, error)
}

// purgeLoop drops expired cache rows every interval until ctx is done.
func purgeLoop(ctx context.Context, p purger, interval, dashboardTTL, loginTTL time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Purge(dashboardTTL, loginTTL)
			if err != nil {
				log.WithError(err).Warn("cache purge failed")
				continue
			}
			if n > 0 {
				log.WithField("rows", n).Debug("purged expired cache rows")
			}
		}
	}
}
