package main

import (
	"context"
	"log"

	"bizmail-be/internal/bootstrap"
	"bizmail-be/internal/config"
	"bizmail-be/internal/seed"
	"bizmail-be/internal/server"
	"bizmail-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Optional dev fixture. Must run before the server accepts traffic.
	if cfg.App.SeedMockData {
		if err := seed.MockData(context.Background(), container.Store, container.Logger); err != nil {
			log.Panicf("Unable to seed mock data: %v", err)
		}
	}

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
