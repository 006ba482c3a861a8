package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"patent-checker/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("patent-checker failed")
		os.Exit(1)
	}
}
