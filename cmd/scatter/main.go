package main

import (
	"os"

	"sepolia-scatter/cmd/scatter/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
