package main

import (
	"context"
	"os"

	"github.com/EWPStanislavKhodorov/BO4E-python/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:]))
}
