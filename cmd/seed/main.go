package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"clinic-scheduler/cmd/bootstrap"
	"clinic-scheduler/config"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/infrastructure/database"

	"github.com/brianvoe/gofakeit/v7"
)

func main() {
	configPath := flag.String("config", ".env", "path to the env file")
	professionals := flag.Int("professionals", 5, "professionals to register")
	clients := flag.Int("clients", 40, "clients to register")
	appointments := flag.Int("appointments", 60, "appointments to book")
	seed := flag.Uint64("seed", 0, "faker seed, 0 picks a random one")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := bootstrap.SetupLogger(cfg.Log)

	location, err := cfg.App.Location()
	if err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Seeding needs no cache and no cross-process locks
	usecases, stop := bootstrap.NewUsecases(bootstrap.Components{
		DB:         db,
		Log:        log,
		Location:   location,
		Scheduling: cfg.Scheduling,
	})
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s := &seeder{uc: usecases, faker: gofakeit.New(*seed), log: log, loc: location}
	if err := s.run(ctx, counts{Professionals: *professionals, Clients: *clients, Appointments: *appointments}); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	key, err := usecases.ApiKeys.Issue(ctx, &dto.CreateApiKeyRequest{Name: "seed", Description: "issued by cmd/seed"})
	if err != nil {
		log.Fatalf("Failed to issue API key: %v", err)
	}
	fmt.Printf("API key (shown once): %s\n", key.Key)
}
