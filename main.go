package main

import (
	"os"

	"github.com/w2sv/filenavigator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
