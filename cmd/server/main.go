package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"biomistrz-backend/internal/client"
	"biomistrz-backend/internal/config"
	"biomistrz-backend/internal/database"
	"biomistrz-backend/internal/discord"
	"biomistrz-backend/internal/handler"
	"biomistrz-backend/internal/middleware"
	"biomistrz-backend/internal/repository"
	"biomistrz-backend/internal/service"
	"biomistrz-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Database + document store
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied successfully")

	docs := store.NewPostgres(db)

	// Repositories
	clanRepo := repository.NewClanRepository(docs, cfg.CASMaxRetries)
	playerRepo := repository.NewPlayerRepository(docs, cfg.CASMaxRetries)
	bossRepo := repository.NewBossRepository(docs, cfg.CASMaxRetries)
	territoryRepo := repository.NewTerritoryRepository(docs, cfg.CASMaxRetries)
	diplomacyRepo := repository.NewDiplomacyRepository(docs, cfg.CASMaxRetries)
	chatRepo := repository.NewChatRepository(docs)
	eventRepo := repository.NewEventRepository(docs)

	if err := territoryRepo.Seed(context.Background(), service.DefaultTerritories()); err != nil {
		log.Fatalf("Failed to seed territories: %v", err)
	}

	// Services
	wsHub := service.NewWSHub()
	webhooks := service.NewDiscordWebhookService(cfg.DiscordWebhookEvents, cfg.DiscordWebhookClans)
	eventSvc := service.NewEventService(eventRepo, clanRepo, webhooks, wsHub)
	clanSvc := service.NewClanService(clanRepo, playerRepo, bossRepo, chatRepo, eventSvc, service.ClanCosts{
		Gems:     cfg.ClanCreateGems,
		Elo:      cfg.ClanCreateElo,
		TestMode: cfg.TestMode,
	})
	territorySvc := service.NewTerritoryService(territoryRepo, playerRepo, eventSvc, cfg.CaptureThreshold)
	bossSvc := service.NewBossService(bossRepo, clanRepo, playerRepo, eventSvc, service.BossConfig{
		MaxHP:     cfg.BossMaxHP,
		TTL:       cfg.BossTTL,
		MaxDamage: cfg.BossMaxDamage,
	})
	diplomacySvc := service.NewDiplomacyService(diplomacyRepo, clanRepo, playerRepo)
	chatSvc := service.NewChatService(chatRepo, playerRepo, wsHub)
	playerSvc := service.NewPlayerService(playerRepo)
	friendsClient := client.NewFriendsClient(cfg.FriendsAPIURL)

	live := service.NewLiveBridge(docs, wsHub)
	live.Start()
	defer live.Stop()

	// Discord bot (optional)
	bot, err := discord.NewBot(cfg.DiscordToken, cfg.DiscordGuildID, cfg.DiscordFeedChannelID, clanSvc, territorySvc, bossSvc, wsHub)
	if err != nil {
		log.Printf("[discord-bot] init failed: %v", err)
	}
	var announcer handler.Announcer
	if bot != nil {
		announcer = bot
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    256 * 1024,
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// API v1
	v1 := app.Group("/api/v1")

	// Public browse endpoints. The limiter is attached per route so it
	// never applies to the authenticated hot paths below.
	clanH := handler.NewClanHandler(clanSvc)
	territoryH := handler.NewTerritoryHandler(territorySvc)
	eventH := handler.NewEventHandler(eventSvc)
	browse := middleware.RateLimit(60, time.Minute)
	v1.Get("/territories", browse, territoryH.List)
	v1.Get("/territories/:id", browse, territoryH.Get)
	v1.Get("/clans", browse, clanH.List)
	v1.Get("/clans/:id", browse, clanH.Get)
	v1.Get("/events", browse, eventH.Recent)

	// Admin routes, registered before the protected catch-all group
	adminH := handler.NewAdminHandler(playerSvc, clanSvc, wsHub, announcer)
	admin := v1.Group("/admin", middleware.AdminKey(cfg.AdminKey))
	admin.Get("/stats", adminH.Stats)
	admin.Post("/announce", adminH.Announce)
	admin.Post("/grant", adminH.Grant)

	// JWT-protected routes
	protected := v1.Group("", middleware.Auth(cfg.JWTSecret))

	// Clans
	clans := protected.Group("/clans")
	clans.Post("/", clanH.Create)
	clans.Get("/:id/members", clanH.GetMembers)
	clans.Post("/:id/join", clanH.Join)
	clans.Post("/:id/leave", clanH.Leave)
	clans.Post("/:id/members", clanH.AddMember)
	clans.Delete("/:id/members/:uid", clanH.Kick)
	clans.Put("/:id/members/:uid/role", clanH.SetRole)

	// Chat
	chatH := handler.NewChatHandler(chatSvc)
	clans.Get("/:id/chat", chatH.History)
	clans.Post("/:id/chat", chatH.Send)

	// Boss raids
	bossH := handler.NewBossHandler(bossSvc)
	clans.Get("/:id/boss", bossH.Get)
	clans.Post("/:id/boss/attack", bossH.Attack)
	clans.Get("/:id/boss/ranking", bossH.Ranking)

	// Diplomacy
	diplomacyH := handler.NewDiplomacyHandler(diplomacySvc)
	clans.Post("/:id/alliances", diplomacyH.RequestAlliance)
	clans.Put("/:id/alliances/:rid", diplomacyH.RespondAlliance)
	clans.Get("/:id/alliances", diplomacyH.ListAlliances)
	clans.Post("/:id/trade-offers", diplomacyH.CreateTradeOffer)
	protected.Put("/trade-offers/:oid", diplomacyH.RespondTradeOffer)
	protected.Get("/trade-offers", diplomacyH.ListOpenOffers)

	// Territories
	protected.Post("/territories/:id/contribute", territoryH.Contribute)

	// Players
	playerH := handler.NewPlayerHandler(playerSvc, friendsClient)
	protected.Get("/players/:id/ranking", playerH.GetRanking)
	protected.Get("/players/:id/friends", playerH.GetFriends)

	// WebSocket
	wsH := handler.NewWSHandler(wsHub, cfg.JWTSecret)
	app.Get("/ws", wsH.Upgrade)

	// Start hub
	go wsHub.Run()

	if bot != nil {
		if err := bot.Start(); err != nil {
			log.Printf("[discord-bot] start failed: %v", err)
		}
		defer bot.Stop()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("BioMistrz clan backend running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	wsHub.Shutdown()
	log.Println("Server stopped")
}
