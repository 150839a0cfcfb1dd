package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sales_dashboard/internal/config"
	"sales_dashboard/internal/dashboard"
	"sales_dashboard/internal/kvstore"
	"sales_dashboard/internal/logger"
)

// NewRootCommand creates the root command of the sales dashboard.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sales-dashboard",
		Short:         "Track sales, payments and debts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewReportCommand())

	return cmd
}

// runtime is everything a subcommand needs once configuration is loaded.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
	store  kvstore.Store
	app    *dashboard.App
}

func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := kvstore.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	app, err := dashboard.Open(ctx, store, loc, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &runtime{cfg: cfg, logger: log, store: store, app: app}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.logger.Warn("close store", zap.Error(err))
	}
	_ = r.logger.Sync()
}
