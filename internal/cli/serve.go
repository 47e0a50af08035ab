package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/boligpris/internal/logger"
	"github.com/rewired-gh/boligpris/internal/query"
	"github.com/rewired-gh/boligpris/internal/scheduler"
	"github.com/rewired-gh/boligpris/internal/server"
	"github.com/rewired-gh/boligpris/internal/session"
	"github.com/rewired-gh/boligpris/internal/telegram"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search form, and the Telegram bot when enabled",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	recorder, store, err := openRecorder()
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}
	defer closeStore(store)

	nav, err := query.NewURLNavigator(publicPath())
	if err != nil {
		logger.Fatal("Invalid server.public_url: %v", err)
	}
	client := newSSBClient()
	sess := session.New(query.NewBuilder(queryOptions(), nav), client, recorder)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Telegram.Enabled {
		bot, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, sess, chartOptions())
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		logger.Info("Telegram client initialized successfully")
		go bot.Listen(ctx)

		if cfg.Telegram.DigestCron != "" {
			digestNav, err := query.NewURLNavigator(cfg.Server.PublicURL)
			if err != nil {
				logger.Fatal("Invalid server.public_url: %v", err)
			}
			sched := scheduler.New(ctx, query.NewBuilder(queryOptions(), digestNav), client, recorder, bot)
			if err := sched.Register(cfg.Telegram.DigestCron); err != nil {
				logger.Fatal("Failed to schedule digest: %v", err)
			}
			sched.Start()
			defer sched.Stop()
		}
	} else {
		logger.Debug("Telegram front-end disabled")
	}

	srv := server.New(sess, nav, chartOptions())
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		logger.Error("HTTP server failed: %v", err)
		return
	}
	logger.Info("Service stopped")
}
