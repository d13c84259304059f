package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/wansatya/x.com/internal/cli"
)

func main() {
	// A .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: failed to load .env: %s\n", err)
		os.Exit(1)
	}

	cli.Execute()
}
