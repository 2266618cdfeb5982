package main

import (
	"os"

	"github.com/bookmatch-dev/bookmatch/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
