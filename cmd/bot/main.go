package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/suspectuso/airdrop-bot/internal/binance"
	"github.com/suspectuso/airdrop-bot/internal/commands"
	"github.com/suspectuso/airdrop-bot/internal/config"
	"github.com/suspectuso/airdrop-bot/internal/notifier"
	"github.com/suspectuso/airdrop-bot/internal/proxy"
	"github.com/suspectuso/airdrop-bot/internal/server"
	"github.com/suspectuso/airdrop-bot/internal/storage"
	"github.com/suspectuso/airdrop-bot/internal/telegram"
	"github.com/suspectuso/airdrop-bot/internal/webhook"
)

// telegram long polling timeout; the http client timeout must exceed it
const pollTimeout = time.Minute

func main() {
	// Bootstrap logger until the configured one is built
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Load .env files
	config.LoadEnvFiles(log)

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	log = newLogger(cfg.Log)
	slog.SetDefault(log)
	log.Info("starting airdrop monitor bot", "env", cfg.Env)

	transport := proxy.Transport(cfg.ProxyURL(), log)

	// Source client
	source := binance.NewClient(cfg.AirdropURL, cfg.PageRows, &http.Client{
		Transport: transport,
		Timeout:   cfg.FetchTimeout,
	}, log)
	log.Info("airdrop client initialized", "url", cfg.AirdropURL)

	// Telegram bot
	bot, err := telegram.New(cfg.BotToken, &http.Client{
		Transport: transport,
		Timeout:   pollTimeout + 10*time.Second,
	}, pollTimeout, log)
	if err != nil {
		log.Error("init telegram bot", "error", err)
		os.Exit(1)
	}
	log.Info("telegram bot initialized", "chat_id", cfg.ChatID)

	// Side channels
	wechat := webhook.New(cfg.WebhookURL, &http.Client{
		Transport: transport,
		Timeout:   cfg.SendTimeout,
	})
	if wechat.Enabled() {
		log.Info("wechat webhook enabled")
	} else {
		log.Info("wechat webhook disabled: WX_WEBHOOK_URL not set")
	}

	format := notifier.NewFormatter(cfg.Location())
	dispatcher := notifier.NewDispatcher(bot.Channel(cfg.ChatID), []notifier.Channel{wechat}, format, cfg.SendTimeout, log)
	poller := notifier.NewPoller(source, dispatcher, storage.NewSeenSet(cfg.SeenCapacity), cfg.PollInterval, log)

	bot.SetCommands(commands.NewHandler(source, format, dispatcher, poller, cfg.AdminUserID, log))

	// Create context cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start health server
	if cfg.HealthPort > 0 {
		healthServer := server.NewServer(poller, log)
		go func() {
			if err := healthServer.Start(ctx, cfg.HealthPort); err != nil && err != http.ErrServerClosed {
				log.Error("health server", "error", err)
			}
		}()
	}

	// Start poll loop
	go poller.Run(ctx)

	// Start bot polling
	log.Info("starting bot polling...")
	bot.Start(ctx)
	log.Info("shutting down...")
}

func newLogger(cfg config.Logger) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.JSON() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
