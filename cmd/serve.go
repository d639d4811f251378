package cmd

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/satheeshds/autodealer/handlers"
	"github.com/satheeshds/autodealer/logger"
	"github.com/satheeshds/autodealer/session"
	"github.com/satheeshds/autodealer/views"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the dealership HTTP API. Migrations are applied on start.

Required environment variables:
  ADMIN_PASSWORD_HASH - bcrypt hash of the admin password (see "autodealer hash-password")

Optional:
  SESSION_SECRET - token signing key, at least 16 bytes. When unset a random
                   key is generated and sessions do not survive a restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("port", "", "Listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")
	c, err := requireConfig()
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		c.Port = p
	}
	if c.AdminPasswordHash == "" {
		return errors.New("ADMIN_PASSWORD_HASH is required; generate one with `autodealer hash-password`")
	}

	secret := []byte(c.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate session secret: %w", err)
		}
		log.Warn().Msg("SESSION_SECRET not set, using a random key for this process")
	}
	sessions, err := session.NewManager(session.Options{
		Secret:       secret,
		TTL:          c.SessionTTL,
		AdminUser:    c.AdminUser,
		PasswordHash: c.AdminPasswordHash,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeDB, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	h := &handlers.Handler{
		Store:    store,
		Sessions: sessions,
		Views:    views.New(views.Dealer{Name: c.DealerName, Address: c.DealerAddress, GSTIN: c.DealerGSTIN}),
	}
	srv := &http.Server{
		Addr:              ":" + c.Port,
		Handler:           handlers.NewRouter(h, c.PublicRatePerMin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", srv.Addr).Str("driver", c.DBDriver).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
