package main

import (
	"os"

	"platepickup/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
