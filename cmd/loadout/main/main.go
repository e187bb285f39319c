package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Alaxouche/loadout/cmd/loadout"
)

func main() {
	rootCmd := loadout.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Stage failures were already reported in the rendered summary;
		// only the exit code is left to set.
		if errors.Is(err, loadout.ErrStagesFailed) {
			os.Exit(1)
		}

		fmt.Fprintln(os.Stderr, loadout.RenderError(err))

		os.Exit(2)
	}
}
