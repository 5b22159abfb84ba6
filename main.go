// ABOUTME: Entry point for the bess CLI
// ABOUTME: Sizes battery energy storage systems from the terminal, CI or as an API

package main

import (
	"fmt"
	"os"

	"github.com/Simtestlab/bess-handbook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
