package main

import (
	"os"

	"github.com/d1nch8g/briefcast/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
