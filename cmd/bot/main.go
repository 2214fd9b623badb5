// Package main contains the entrypoint for the Lingvo Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/lingvobot/internal/bot"
	"github.com/edgard/lingvobot/internal/bot/conversation"
	"github.com/edgard/lingvobot/internal/bot/handlers"
	"github.com/edgard/lingvobot/internal/bot/tasks"
	"github.com/edgard/lingvobot/internal/broadcast"
	"github.com/edgard/lingvobot/internal/config"
	"github.com/edgard/lingvobot/internal/content"
	"github.com/edgard/lingvobot/internal/database"
	"github.com/edgard/lingvobot/internal/imagegen"
	"github.com/edgard/lingvobot/internal/llm"
	"github.com/edgard/lingvobot/internal/logger"
	"github.com/edgard/lingvobot/internal/quiz"
	"github.com/edgard/lingvobot/internal/ratelimit"
	"github.com/edgard/lingvobot/internal/sanitize"
	"github.com/edgard/lingvobot/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires config, logger, storage, the model client, content sources, the
// Telegram bot and the scheduler, then blocks until shutdown. It returns the
// process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	loc := cfg.Location()

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	var counter ratelimit.Counter = ratelimit.NewMemoryCounter()
	if cfg.RateLimit.Persistent {
		counter = ratelimit.NewStoreCounter(store)
	}
	limiter := ratelimit.New(counter, cfg.RateLimit.DailyRequests, ratelimit.Messages{
		Remaining: cfg.Messages.QuotaRemaining,
		Exhausted: cfg.Messages.QuotaExhausted,
	}, ratelimit.WithLocation(loc))

	model, err := llm.NewClient(ctx, cfg.LLM, log)
	if err != nil {
		log.Error("Failed to initialize language model client", "provider", cfg.LLM.Provider, "error", err)
		return 1
	}

	var images content.ImageSource
	if cfg.Images.Enabled {
		images = imagegen.New(cfg.Images, nil, log)
	}

	policy := sanitize.NewTelegramPolicy()
	engine := quiz.NewEngine(store, cfg.Quiz.ActiveTTL, loc, log)
	questions := quiz.NewPicker(cfg.Content.QuizBankPath, cfg.Content.WordsPath, log)
	conversations := conversation.NewStore(conversation.DefaultTTL, nil)

	hDeps := handlers.HandlerDeps{
		Logger:        log,
		Config:        cfg,
		Store:         store,
		LLM:           model,
		Limiter:       limiter,
		Engine:        engine,
		Questions:     questions,
		Conversations: conversations,
		Policy:        policy,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewDefaultHandler(hDeps)),
		tgbot.WithErrorsHandler(telegram.ErrorsHandler(log)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := telegram.SetCommands(ctx, tg, handlers.Commands()); err != nil {
		log.Warn("Failed to publish bot commands", "error", err)
	}

	tDeps := tasks.TaskDeps{
		Logger:        log,
		Config:        cfg,
		Store:         store,
		Bot:           tg,
		Broadcaster:   broadcast.New(cfg.Broadcast.Concurrency, cfg.Broadcast.SendTimeout, log),
		WordOfDay:     content.NewWordOfDay(cfg.Content.WordsPath, model, images, cfg.Prompts, cfg.Messages, log),
		Questions:     questions,
		Engine:        engine,
		Conversations: conversations,
		Policy:        policy,
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, loc, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, cfg, store, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
