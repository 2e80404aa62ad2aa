package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/coregx/tinyre/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrNoMatch) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
