// Command deal prints a Jeopardy board in the terminal.
//
// It runs the same select → load → draw cycle as the server, against the
// trivia API or a fixture, and can reveal every cell a number of times to
// show questions or answers.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
