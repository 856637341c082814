package main

import (
	"fmt"
	"os"

	"pepesbook/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "pepesbook: %v\n", err)
		os.Exit(1)
	}
}
