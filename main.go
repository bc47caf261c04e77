package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/deutschbot/internal/bot"
	"github.com/example/deutschbot/internal/database"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	b, err := bot.New()
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		b.Stop()
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}

	log.Println("Bot stopped successfully")
}
