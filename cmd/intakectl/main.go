package main

import (
	"github.com/candidhq/intake/internal/cli"
)

func main() {
	cli.Execute()
}
