package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/satheeshds/autodealer/config"
	"github.com/satheeshds/autodealer/db"
	"github.com/satheeshds/autodealer/logger"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

var (
	cfg    *config.Config
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "autodealer",
	Short: "Used-car dealership backend",
	Long: `autodealer runs the dealership API: public listings and sell requests,
admin moderation, and the sales ledger that reconciles payments, costs and
profit for every car sold.

Configuration is read from the environment and an optional .env file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. loadErr is the error, if any, from loading c; it is
// reported by the commands that need configuration.
func Execute(c *config.Config, loadErr error) {
	cfg, cfgErr = c, loadErr
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func requireConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// openStore connects to the configured database and brings its schema up to
// date. The returned func closes the connection.
func openStore(ctx context.Context) (*db.Store, func(), error) {
	c, err := requireConfig()
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.Open(ctx, c.DBDriver, c.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(conn, c.DBDriver); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return db.NewStore(conn, c.DBDriver), func() { conn.Close() }, nil
}
