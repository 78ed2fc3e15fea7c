package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/vault/cmd"
	"github.com/PolarWolf314/vault/internal/ui"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+err.Error())
		os.Exit(1)
	}
}
