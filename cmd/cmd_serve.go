package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	telegram "pcb-inspector/internal/api"
	"pcb-inspector/internal/api/rest"
)

var serveWithBot bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the HTTP API on HTTP_ADDR. With --bot the Telegram bot runs in the
same process; if either stops with an error, the other is shut down too.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveWithBot, "bot", false, "also run the Telegram bot")
}

func runServe(cmd *cobra.Command, _ []string) error {
	d, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	var bot *telegram.Bot
	if serveWithBot {
		if d.cfg.TelegramToken == "" {
			return errors.New("TELEGRAM_TOKEN is required with --bot")
		}
		if bot, err = telegram.NewBot(d.cfg.TelegramToken, d.services); err != nil {
			return err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	srv := &http.Server{
		Addr:              d.cfg.HTTPAddr,
		Handler:           rest.NewRouter(d.services, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		log.Printf("HTTP API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if bot != nil {
		g.Go(func() error {
			log.Println("Bot is running...")
			return bot.Run(ctx)
		})
	}

	return g.Wait()
}
