package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/placename-quiz-bot/internal/config"
	"github.com/aliskhannn/placename-quiz-bot/internal/delivery/rest"
	"github.com/aliskhannn/placename-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/placename-quiz-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/placename-quiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/placename-quiz-bot/internal/logger"
	"github.com/aliskhannn/placename-quiz-bot/internal/repository"
	"github.com/aliskhannn/placename-quiz-bot/internal/service"
	"github.com/aliskhannn/placename-quiz-bot/internal/storage"
)

const janitorSpec = "@every 10m"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Bot.Debug
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "クイズを始める"},
		{Command: "quiz", Description: "問題を出す"},
		{Command: "next", Description: "次の問題へ"},
		{Command: "mode", Description: "4択 / 自由入力の切替"},
		{Command: "hints", Description: "読みヒントの切替"},
		{Command: "importance", Description: "重要度で出題を絞り込み"},
		{Command: "lang", Description: "言語を選ぶ"},
		{Command: "reset", Description: "設定を初期値に戻す"},
		{Command: "guide", Description: "読み方ガイド"},
		{Command: "help", Description: "ヘルプ"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	// Preferences live in Postgres when configured, in memory otherwise.
	var prefStore service.KeyValueStore
	if cfg.DB.Enabled() {
		dsn, _ := cfg.DB.DSN()

		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(dsn, cfg.DB.MigrationsPath); err != nil {
				return err
			}
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return err
		}
		defer pool.Close()

		prefStore = pgrepo.NewPreferenceRepository(pool)
	} else {
		lg.Warn("DATABASE_URL is not set, preferences are kept in memory")
		prefStore = storage.NewPreferenceStorage()
	}

	sessions := storage.NewSessionStorage()
	loader := repository.NewCatalogLoader(nil, cfg.Catalog.Timeout, lg)

	prefService := service.NewPreferenceService(prefStore, lg)
	quizService := service.NewQuizService(
		sessions,
		loader,
		prefService,
		service.NewDefaultQuizGenerator(),
		service.NewGrader(),
		cfg.Catalog.BaseURL,
		lg,
	)

	handler := telegram.NewHandler(bot, lg, quizService)
	janitor := service.NewSessionJanitor(sessions, cfg.Session.IdleTTL, janitorSpec, lg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return handler.Run(gctx) })
	g.Go(func() error { return janitor.Start(gctx) })
	if cfg.HTTP.Addr != "" {
		server := rest.NewServer(cfg.HTTP.Addr, rest.NewRouter(cfg.Catalog.DataDir, lg), lg)
		g.Go(func() error { return server.Run(gctx) })
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		lg.Info("shutdown signal received")
		return nil
	}
	return err
}
