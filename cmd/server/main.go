package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/joonhak/mm-auth-server/internal/config"
	"github.com/joonhak/mm-auth-server/internal/database"
	"github.com/joonhak/mm-auth-server/internal/handler"
	"github.com/joonhak/mm-auth-server/internal/oauth"
	"github.com/joonhak/mm-auth-server/internal/queue"
	"github.com/joonhak/mm-auth-server/internal/repository"
	"github.com/joonhak/mm-auth-server/internal/router"
	"github.com/joonhak/mm-auth-server/internal/service"
	"github.com/joonhak/mm-auth-server/internal/token"
	"github.com/joonhak/mm-auth-server/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql connect failed: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis connect failed: refresh-token store requires redis")
	}

	codec := token.NewCodec(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	accounts := repository.NewAccountRepo(db)
	refresh := repository.NewRefreshTokenRepo(rdb, cfg.RefreshTTL)
	hasher := utils.BcryptHasher{Cost: cfg.BcryptCost}
	publisher := queue.NewPublisher(cfg.RabbitURL)

	auth := service.NewAuthService(accounts, refresh, codec, hasher,
		oauth.DefaultRegistry(), oauth.NewHTTPRevoker(), publisher)

	go queue.StartLoginConsumer(cfg.RabbitURL)

	e := echo.New()
	router.Register(e, cfg, codec, handler.NewAuthHandler(cfg, auth), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
