package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/room-scheduler-api/pkg/auth"
	"github.com/arnavshah/room-scheduler-api/pkg/config"
)

func main() {
	// Load .env from project root
	config.LoadDotEnv()

	if len(os.Args) < 2 {
		fmt.Println("Usage: keygen <client name>")
		os.Exit(1)
	}

	name := os.Args[1]
	secret := os.Getenv("API_MASTER_SECRET")
	if secret == "" {
		fmt.Println("Error: API_MASTER_SECRET not found in .env")
		os.Exit(1)
	}

	apiKey := auth.NewSigner("", secret).GenerateAPIKey(name)
	fmt.Printf("Generated Key for %s:\n%s\n", name, apiKey)
}
