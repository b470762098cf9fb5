// scripts/generate_password.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bayt-organic/storefront/internal/config"
	"github.com/bayt-organic/storefront/internal/pkg/auth"
)

// Prints a bcrypt hash for seeding or resetting an account by hand,
// using the cost and strength rules the API applies.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_password.go <password>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	passwords := auth.NewPasswordManager(cfg)

	hash, err := passwords.HashPassword(os.Args[1])
	if err != nil {
		log.Fatalf("Error generating hash: %v", err)
	}

	if err := passwords.VerifyPassword(os.Args[1], hash); err != nil {
		log.Fatalf("Hash verification failed: %v", err)
	}

	fmt.Printf("Cost: %d\n", cfg.Security.BcryptCost)
	fmt.Printf("Hash: %s\n", hash)
}
