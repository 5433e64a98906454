// Command precon ingests MTG precon decklists and Scryfall data into SQLite
// and serves statistics about them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
