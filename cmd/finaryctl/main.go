package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Finary/config"
	"Finary/internal/infrastructure"
	"Finary/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// errDrift makes the process exit with status 2.
var errDrift = errors.New("ledger drift detected")

var (
	v       = viper.New()
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:               "finaryctl",
		Short:             "Operator tooling for the Finary ledger",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().String("db-driver", "", "database driver (postgres, sqlite)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database DSN")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = v.BindPFlag("db.driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	_ = v.BindPFlag("db.dsn", rootCmd.PersistentFlags().Lookup("db-dsn"))
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(migrateCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, errDrift):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	config.LoadEnvFiles()

	loaded, err := config.LoadFrom(v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded
	logger.Init(cfg)
	return nil
}

func openDB() (*gorm.DB, func(), error) {
	db, err := infrastructure.NewDb(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closeFn, nil
}
