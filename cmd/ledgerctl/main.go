// Package main is the ledgerctl command line entry point.
package main

import (
	"context"
	"os"

	"github.com/go-petr/pet-ledger/internal/commands"
)

func main() {
	os.Exit(commands.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
