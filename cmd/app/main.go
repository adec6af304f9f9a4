package main

import (
	"flag"
	"log"
	"os"

	"MarketSentinel/internal/di"
	"MarketSentinel/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s workers=%d overflow=%s", cfg.Environment, cfg.Pipeline.Workers, cfg.Pipeline.OverflowPolicy)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	log.Printf("clickhouse: connected and schema ready - db: %s", cfg.ClickHouse.Database)
	log.Printf("kafka: connected brokers=%v alerts=%s", cfg.Kafka.Brokers, cfg.Kafka.AlertsTopic)

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
