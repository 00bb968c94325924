package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pcb-inspector/config"
	"pcb-inspector/internal/infrastructure/describer"
)

var defectsCmd = &cobra.Command{
	Use:   "defects",
	Short: "Print the defect catalogue with repair steps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		table, err := loadTable(cfg)
		if err != nil {
			return err
		}

		text, err := describer.Catalogue(table)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}
