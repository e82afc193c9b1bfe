// Package main is the entry point for the anyconf command.
package main

import (
	"os"

	"github.com/0xalexb/anyconf/cmd/anyconf/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
