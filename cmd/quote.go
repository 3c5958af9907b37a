package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ConsultationService/internal/config"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// quoteCmd считает цену по конфигурации без обращения к базе (для проверки таблиц множителей)
func quoteCmd(configPath *string) *cobra.Command {
	var (
		serviceID string
		tier      string
		country   string
		firstTime bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print the price breakdown for a service, tier and country",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			calc, err := newCalculator(cfg)
			if err != nil {
				return err
			}

			t, err := domain.ParseDurationTier(tier)
			if err != nil {
				return err
			}

			breakdown, err := calc.Breakdown(serviceID, t, country, firstTime)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(breakdown, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&serviceID, "service", "", "Catalog service id")
	cmd.Flags().StringVar(&tier, "tier", string(domain.TierStandard), "Duration tier: short or standard")
	cmd.Flags().StringVar(&country, "country", "", "Client country")
	cmd.Flags().BoolVar(&firstTime, "first-time", true, "Client has not used the free consultation yet")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}
