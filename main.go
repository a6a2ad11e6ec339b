package main

import (
	"os"

	"github.com/bueltan/repharsely/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
