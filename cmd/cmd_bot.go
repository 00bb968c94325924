package main

import (
	"errors"
	"log"

	"github.com/spf13/cobra"

	telegram "pcb-inspector/internal/api"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		if d.cfg.TelegramToken == "" {
			return errors.New("TELEGRAM_TOKEN is required")
		}

		bot, err := telegram.NewBot(d.cfg.TelegramToken, d.services)
		if err != nil {
			return err
		}

		log.Println("Bot is running...")
		return bot.Run(cmd.Context())
	},
}
