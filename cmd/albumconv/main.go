package main

import (
	"os"

	"github.com/alexmbird/albumconv/cmd/albumconv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
