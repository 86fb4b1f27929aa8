package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"storefront"
	fiberadapter "storefront/adapters/fiber"
	pgxadapter "storefront/adapters/pgx"
)

type config struct {
	Addr        string        `env:"STOREFRONT_ADDR,default=:8080"`
	DatabaseURL string        `env:"STOREFRONT_DATABASE_URL,required"`
	Secret      string        `env:"STOREFRONT_SECRET,required"`
	TokenTTL    time.Duration `env:"STOREFRONT_TOKEN_TTL,default=30m"`
	BasePath    string        `env:"STOREFRONT_BASE_PATH,default=/api"`
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("pgxpool.New: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("database ping: %v", err)
	}

	app := fiber.New()
	app.Use(logger.New(logger.Config{
		Format:     "${time}|${status}|${latency}|${ip}|${method}|${path}|${errors}\n",
		TimeFormat: "2006/01/02 15:04:05",
		TimeZone:   "Local",
	}))

	_, err = storefront.New(storefront.Config{
		Secret:   cfg.Secret,
		Database: pgxadapter.New(pool),
		HTTP:     fiberadapter.New(app),
		TokenTTL: cfg.TokenTTL,
		BasePath: cfg.BasePath,
	})
	if err != nil {
		log.Fatalf("could not create storefront instance: %v", err)
	}

	log.Infof("storefront listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("app.Listen: %v", err)
	}
}
