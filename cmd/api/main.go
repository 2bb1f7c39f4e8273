package main

import (
	"os"

	"github.com/ishantswami13-crypto/wisewallet/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
