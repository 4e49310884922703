package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"tailscale.com/tsnet"

	"github.com/claude/ironquant/internal/bot"
	"github.com/claude/ironquant/internal/config"
	"github.com/claude/ironquant/internal/models"
	"github.com/claude/ironquant/internal/ratelimit"
	"github.com/claude/ironquant/internal/server"
	"github.com/claude/ironquant/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("IronQuant starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.User.Timezone)
	if err != nil {
		log.Error("invalid timezone", "timezone", cfg.User.Timezone, "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Seed the single-tenant profile
	user, err := db.EnsureUser(ctx, models.DefaultUserID, cfg.User.Name,
		cfg.User.WeightKg, cfg.User.Timezone, cfg.User.RemindHour)
	if err != nil {
		log.Error("failed to seed profile", "error", err)
		os.Exit(1)
	}
	log.Info("profile ready", "mode", user.GoalMode, "streak", user.CurrentStreak)

	// Rate limiters, swept periodically so idle keys don't accumulate.
	sweepStop := make(chan struct{})
	defer close(sweepStop)
	apiLimiter := ratelimit.New(20, time.Minute)
	go apiLimiter.SweepEvery(5*time.Minute, sweepStop)

	// Create server
	srv := server.New(db, cfg.Auth.APIKey, apiLimiter, loc, log)

	// Telegram bot and scheduled jobs
	botCtx, botCancel := context.WithCancel(ctx)
	defer botCancel()
	if cfg.Telegram.Enabled {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			log.Error("telegram init failed", "error", err)
			os.Exit(1)
		}
		botLimiter := ratelimit.New(20, time.Minute)
		go botLimiter.SweepEvery(5*time.Minute, sweepStop)
		tb := bot.New(api, db, botLimiter, cfg.Telegram.ChatID, loc, log)
		go tb.Run(botCtx)

		sched := bot.NewScheduler(tb)
		sched.Start()
		defer sched.Stop()
	}

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	botCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
