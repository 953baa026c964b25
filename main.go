// Package main is the entry point for the user registration service.
package main

import (
	"os"

	"user-registration/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
