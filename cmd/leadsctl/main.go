package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/xavierca1/residence-leads/internal/cli"
)

func main() {
	godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
