package main

import (
	"context"
	"eisenhower-matrix/internal/config"
	"eisenhower-matrix/internal/handlers"
	"eisenhower-matrix/internal/store"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	cancel()
	defer db.Close()

	router := gin.Default()
	handlers.New(db, cfg.JWTKey, cfg.JWTTTL).Routes(router)

	log.Fatal(router.Run(cfg.Addr()))
}
