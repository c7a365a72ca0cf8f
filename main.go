package main

import (
	"os"

	"github.com/frostline/holidayquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
