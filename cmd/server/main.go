package main

import (
	"log"

	_ "bingo/docs"
	"bingo/internal/config"
	"bingo/internal/server"
)

// @title           Bingo Builder API
// @version         1.0
// @description     API for creating, arranging and sharing 5x5 bingo boards.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
