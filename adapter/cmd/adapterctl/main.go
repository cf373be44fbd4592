package main

import (
	"os"

	"github.com/Cogwheel-Validator/spectra-adapter/adapter/cli"
)

func main() {
	runner := cli.NewRunner()
	os.Exit(runner.Run(os.Args[1:]))
}
