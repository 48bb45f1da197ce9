package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/membercat-studios/membercat-bot/internal/api/http"
	"github.com/membercat-studios/membercat-bot/internal/api/http/handlers"
	"github.com/membercat-studios/membercat-bot/internal/bot"
	"github.com/membercat-studios/membercat-bot/internal/cache"
	"github.com/membercat-studios/membercat-bot/internal/config"
	"github.com/membercat-studios/membercat-bot/internal/discord"
	"github.com/membercat-studios/membercat-bot/internal/events"
	"github.com/membercat-studios/membercat-bot/internal/modrinth"
	"github.com/membercat-studios/membercat-bot/internal/observability"
	"github.com/membercat-studios/membercat-bot/internal/persistence"
	"github.com/membercat-studios/membercat-bot/internal/repository"
	"github.com/membercat-studios/membercat-bot/internal/service"
	"github.com/membercat-studios/membercat-bot/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Discord.Token == "" || cfg.Discord.GuildID == "" {
		log.Fatal("DISCORD_TOKEN and DISCORD_GUILD_ID are required")
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer mongo.Close(context.Background())

	var redis *persistence.Redis
	var store cache.Cache
	if cfg.Cache.Backend == "redis" {
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		store = cache.NewRedis(redis.Client, logger)
	} else {
		store = cache.NewMemory()
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	mailboxRepo := repository.NewMailboxRepository(mongo.Database)
	settingsRepo := repository.NewSettingsRepository(mongo.Database)
	projectRepo := repository.NewProjectRepository(mongo.Database)
	feedRepo := repository.NewFeedRepository(mongo.Database)

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		logger.Fatal("failed to create discord session", zap.Error(err))
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent
	dg.State.MaxMessageCount = 500

	gateway := discord.NewSession(dg)

	settingsService := service.NewSettingsService(cfg.Discord.GuildID, settingsRepo, store, logger)
	modmailService := service.NewModmailService(service.ModmailDependencies{
		GuildID:          cfg.Discord.GuildID,
		MailboxRepo:      mailboxRepo,
		Settings:         settingsService,
		Gateway:          gateway,
		Cache:            store,
		Dispatcher:       dispatcher,
		Logger:           logger,
		FallbackCooldown: cfg.Modmail.DefaultCooldown(),
	})
	feedService := service.NewFeedService(cfg.Discord.GuildID, feedRepo, logger)
	auditService := service.NewAuditService(dispatcher, settingsService, gateway, logger)
	auditService.RegisterHandlers()

	modrinthClient := modrinth.NewClient(cfg.Modrinth)

	handler := bot.NewHandler(bot.HandlerDependencies{
		GuildID:  cfg.Discord.GuildID,
		Modmail:  modmailService,
		Settings: settingsService,
		Feeds:    feedService,
		Audit:    auditService,
		Modrinth: modrinthClient,
		Updater:  cfg.Updater,
		Cache:    store,
		Metrics:  metrics,
		Logger:   logger,
	})
	handler.Bind(dg)

	if err := dg.Open(); err != nil {
		logger.Fatal("failed to open discord gateway", zap.Error(err))
	}
	defer dg.Close()

	commands, err := bot.RegisterCommands(dg, cfg.Discord.GuildID)
	if err != nil {
		logger.Fatal("failed to register commands", zap.Error(err))
	}
	logger.Info("commands registered", zap.Int("count", len(commands)))

	sweeper := worker.NewSweeper(store, cfg.Cache.SweepInterval(), metrics, logger)
	go sweeper.Run(ctx)

	updater := worker.NewUpdater(worker.UpdaterDependencies{
		Config:      cfg.Updater,
		Client:      modrinthClient,
		ProjectRepo: projectRepo,
		Settings:    settingsService,
		Gateway:     gateway,
		Cache:       store,
		Metrics:     metrics,
		Logger:      logger,
	})
	go updater.Run(ctx)

	announcer := worker.NewFeedAnnouncer(worker.FeedDependencies{
		GuildID:  cfg.Discord.GuildID,
		Config:   cfg.Feeds,
		FeedRepo: feedRepo,
		Settings: settingsService,
		Gateway:  gateway,
		Metrics:  metrics,
		Logger:   logger,
	})
	go announcer.Run(ctx)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, mongo, redis),
		Stats:  handlers.NewStatsHandler(metrics, store),
	})
	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("bot is running", zap.String("guild", cfg.Discord.GuildID))
	waitForShutdown(logger)

	bot.UnregisterCommands(dg, cfg.Discord.GuildID, commands)
	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
