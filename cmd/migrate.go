package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ConsultationService/internal/config"
	"github.com/m04kA/SMC-ConsultationService/migrations"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Close()

			db, err := openDB(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := migrations.Apply(context.Background(), db, log)
			if err != nil {
				return err
			}

			log.Info("Migrations complete: %d applied", applied)
			return nil
		},
	}
}
