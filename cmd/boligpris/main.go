package main

import (
	"os"

	"github.com/rewired-gh/boligpris/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
