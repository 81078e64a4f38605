package main

import (
	"os"

	"github.com/dshills/dailycontrib/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
