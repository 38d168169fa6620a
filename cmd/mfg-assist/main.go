package main

import (
	"fmt"
	"os"

	"mfg-assist/cmd/mfg-assist/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
