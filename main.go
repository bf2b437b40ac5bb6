package main

import (
	"os"

	"github.com/fiwarelab/gavel/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
