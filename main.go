package main

//go:generate swag init

import (
	"log"

	"github.com/satheeshds/autodealer/cmd"
	"github.com/satheeshds/autodealer/config"
	_ "github.com/satheeshds/autodealer/docs"
	"github.com/satheeshds/autodealer/logger"
)

// @title           Autodealer API
// @version         1.0.0
// @description     Used-car dealership backend: listings, sell requests, sales ledger and reconciliation.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: could not load configuration: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else if err := logger.Setup(cfg.LoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cmd.Execute(cfg, err)
}
