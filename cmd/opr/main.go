package main

import (
	"os"

	"github.com/r9s-ai/open-proxy-rules/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
