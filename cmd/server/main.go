package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-tracker/internal/config"
	"github.com/iliyamo/vacation-tracker/internal/database"
	"github.com/iliyamo/vacation-tracker/internal/handler"
	"github.com/iliyamo/vacation-tracker/internal/queue"
	"github.com/iliyamo/vacation-tracker/internal/repository"
	"github.com/iliyamo/vacation-tracker/internal/router"
	"github.com/iliyamo/vacation-tracker/internal/service"
)

func main() {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}

	// Repositories.
	userRepo := &repository.UserRepo{DB: db}
	roleRepo := &repository.RoleRepo{DB: db}
	entitlementRepo := &repository.EntitlementRepo{DB: db}
	recordRepo := &repository.RecordRepo{DB: db}
	importRepo := &repository.ImportRepo{DB: db}

	// Services.
	userSvc := service.NewUserService(userRepo, roleRepo, cfg.BcryptCost)
	vacationSvc := service.NewVacationService(entitlementRepo, recordRepo)
	importSvc := service.NewImportService(importRepo, cfg.BcryptCost)
	if cfg.ImportChunkSize > 0 {
		importSvc.SetChunkSize(cfg.ImportChunkSize)
	}

	events := queue.NewPublisher(cfg.AMQPURL)
	if events != nil {
		go func() {
			if err := queue.StartVacationConsumer(cfg.AMQPURL); err != nil {
				log.Printf("vacation consumer stopped: %v", err)
			}
		}()
	}

	// Handlers.
	deps := router.Deps{
		Auth:          &handler.AuthHandler{Users: userSvc, JWTSecret: cfg.JWTSecret, AccessTTLMin: cfg.AccessTTLMin},
		Vacation:      &handler.VacationHandler{Svc: vacationSvc, Users: userSvc, Events: events},
		Users:         &handler.UserHandler{Svc: userSvc},
		Import:        &handler.ImportHandler{Svc: importSvc, Events: events},
		Authenticator: userSvc,
		JWTSecret:     cfg.JWTSecret,
		Redis:         rdb,
		CacheCfg:      config.LoadCacheConfig(),
		RateCfg:       config.LoadRateLimitConfig(),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, deps)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
