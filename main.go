package main

import (
	"os"

	"github.com/arturoeanton/go-xpath/internal/cli"
)

func main() {
	if len(os.Args) >= 2 && os.Args[1] == "demo" {
		target := "all"
		if len(os.Args) > 2 {
			target = os.Args[2]
		}
		runDemos(target)
		return
	}
	os.Exit(cli.Execute())
}
