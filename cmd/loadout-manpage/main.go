package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/Alaxouche/loadout/cmd/loadout"
	"github.com/Alaxouche/loadout/internal/version"
)

func main() {
	rootCmd := loadout.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "LOADOUT",
		Section: "1",
		Source:  "loadout " + version.Version,
		Manual:  "loadout manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
