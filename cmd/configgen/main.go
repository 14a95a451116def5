package main

import (
	"flag"
	"os"

	"github.com/danmuck/canectl/internal/config"
	"github.com/danmuck/canectl/internal/logging"
	"github.com/rs/zerolog/log"
)

const defaultPath = "cmd/canectl/config.toml"

func main() {
	output := flag.String("output", defaultPath, "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", defaultPath, "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	logging.ConfigureRuntime()

	if *validate {
		if _, err := config.Load(*input); err != nil {
			log.Error().Err(err).Str("path", *input).Msg("config invalid")
			os.Exit(1)
		}
		log.Info().Str("path", *input).Msg("config valid")
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Error().Err(err).Str("path", *output).Msg("write template failed")
		os.Exit(1)
	}
	log.Info().Str("path", *output).Msg("wrote config template")
}
