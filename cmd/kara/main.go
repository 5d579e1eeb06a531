package main

import (
	"os"

	"github.com/wenjiang/kara/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
