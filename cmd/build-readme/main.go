package main

import (
	"bottemplate/internal/command"
	"bottemplate/internal/command/core"
	"bottemplate/internal/docs"

	"github.com/rs/zerolog/log"
)

func main() {
	registry := command.NewRegistry()
	registry.Register(core.All()...)

	if err := docs.UpdateReadme(registry); err != nil {
		log.Fatal().Err(err).Msg("failed to update README.md")
	}
}
