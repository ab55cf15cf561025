package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/SHADOW-465/LockedIn-sub001/internal/config"
	"github.com/SHADOW-465/LockedIn-sub001/internal/database"
	"github.com/SHADOW-465/LockedIn-sub001/internal/handler"
	"github.com/SHADOW-465/LockedIn-sub001/internal/queue"
	"github.com/SHADOW-465/LockedIn-sub001/internal/repository"
	"github.com/SHADOW-465/LockedIn-sub001/internal/router"
	"github.com/SHADOW-465/LockedIn-sub001/internal/service"
	"github.com/SHADOW-465/LockedIn-sub001/internal/textgen"
)

func main() {
	// Load .env when present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable, rate limiting disabled")
	}
	rlCfg := config.LoadRateLimitConfig()

	// Repositories and services are constructed here and passed down;
	// nothing below holds ambient global clients.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	sessions := repository.NewSessionRepo(db)
	usage := repository.NewUsageRepo(db)

	penalties := service.NewPenaltyService(sessions)
	quota := service.NewQuotaAccountant(usage, cfg.QuotaMonthlyLimit, cfg.QuotaLoc)
	gen := textgen.New(textgen.Config{
		BaseURL: cfg.TextgenBaseURL,
		APIKey:  cfg.TextgenAPIKey,
		Model:   cfg.TextgenModel,
	})

	e := echo.New()
	router.RegisterRoutes(e, handler.NewGateHandler(cfg.JWTSecret, users, sessions))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, sessions), cfg.JWTSecret)
	router.RegisterCore(e, router.CoreHandlers{
		Punish:     handler.NewPunishHandler(penalties),
		Usage:      handler.NewUsageHandler(quota),
		Sessions:   handler.NewSessionHandler(sessions),
		Onboarding: handler.NewOnboardingHandler(users),
		Analysis:   handler.NewAnalysisHandler(gen, quota, usage),
	}, cfg, rlCfg, rdb, sessions)

	// Background consumer writing violation events to the audit log.
	go func() {
		if err := queue.StartViolationConsumer(); err != nil {
			log.Printf("violation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
