// @title Quickchat
// @version 0.1
// @description Minimal chat messaging backend.

// @host localhost:8080
// @BasePath /
// @query.collection.format multi
// @schemes http

package main

import (
	"log"

	"quickchat/internal/app"
	"quickchat/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	app.Run(cfg)
}
