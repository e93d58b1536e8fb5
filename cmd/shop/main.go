package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/hishamali-gh/storefront/internal/cli"
)

func main() {
	// Load .env before viper and cobra read the environment.
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
