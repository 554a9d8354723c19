package main

import (
	"context"
	"os"

	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd"
)

func main() {
	os.Exit(cmd.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
