// Package main runs the workoutzones MCP server over stdio, for local MCP clients.
// The backend serves the same tools at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/workoutzones/internal/config"
	"github.com/2beens/workoutzones/internal/db"
	"github.com/2beens/workoutzones/internal/gymstats/catalog"
	workoutsmcp "github.com/2beens/workoutzones/internal/gymstats/mcp"
	"github.com/2beens/workoutzones/internal/gymstats/workouts"
	"github.com/2beens/workoutzones/internal/logging"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// stdout carries the protocol, keep logs away from it
	logging.Setup(logging.LoggerSetupParams{
		LogFileName: cfg.LogsPath,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})
	if cfg.LogsPath == "" {
		log.SetOutput(os.Stderr)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     os.Getenv("WORKOUTZONES_DB_PASS"),
		SSLMode:        cfg.PostgresSSLMode,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	catalogRepo := catalog.NewRepo(dbPool)
	workoutsService := workouts.NewService(
		workouts.NewRepo(dbPool),
		catalog.NewCachedCatalog(catalogRepo, cfg.CatalogCacheSizeMB, cfg.CatalogCacheTTLSeconds, nil),
		nil,
		cfg.RecoveryWindowDays,
	)
	server := workoutsmcp.NewServer(workoutsmcp.NewPoolSchemaRepo(dbPool), workoutsService, catalogRepo)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
