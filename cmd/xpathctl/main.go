// Command xpathctl is the installable entry point for the query tool;
// `go install .../cmd/xpathctl` gets just the tool, without the demo
// gallery the root module binary also carries.
package main

import (
	"os"

	"github.com/arturoeanton/go-xpath/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
