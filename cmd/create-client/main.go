package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	logger_adapter "price-estimator-service/internal/adapters/logger"
	postgres_adapter "price-estimator-service/internal/adapters/postgres"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/usecase"
	"price-estimator-service/pkg/postgres"
	"time"

	"github.com/joho/godotenv"
)

// create-client регистрирует клиента API и печатает его id и ключ.
// Ключ выводится один раз, в базе хранится только хэш.
func main() {
	name := flag.String("name", "", "client name")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Info: .env file not loaded: %v. Using process environment.\n", err)
	}

	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer:   os.Stderr,
		Level:    logger_adapter.ParseLevel(os.Getenv("STDOUT_LOG_LEVEL")),
		UseColor: true,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = contextkeys.ContextWithLogger(ctx, logger)

	pool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: os.Getenv("DATABASE_URL")})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pool.Close()

	if err := postgres_adapter.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to prepare database schema: %v", err)
	}

	clientRepo, err := postgres_adapter.NewClientRepository(pool)
	if err != nil {
		log.Fatalf("Failed to initialize client repository: %v", err)
	}

	client, apiKey, err := usecase.NewRegisterClientUseCase(clientRepo).Execute(ctx, *name)
	if err != nil {
		log.Fatalf("Failed to register client: %v", err)
	}

	fmt.Printf("client_id: %s\napi_key:   %s\n", client.ID, apiKey)
}
