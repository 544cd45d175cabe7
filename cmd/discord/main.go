package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"bottemplate/internal/command"
	"bottemplate/internal/command/core"
	"bottemplate/internal/config"
	"bottemplate/internal/discord"
	"bottemplate/internal/middleware"
	"bottemplate/internal/storage"
	"bottemplate/internal/version"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogging(cfg)
	log.Info().Str("app", version.AppName).Str("version", version.AppVersion).Msg("starting bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, err := storage.Open(cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open storage")
	}
	defer kv.Close()
	store := storage.New(kv)

	wipe := core.NewWipeHistory()
	registry := command.NewRegistry()
	for _, c := range []command.Command{&core.Ping{}, &core.About{}, &core.Help{}, &core.History{}, wipe} {
		registry.Register(command.Chain(c,
			middleware.WithCommandLogger(),
			middleware.WithGuildOnly(),
		))
	}

	bot := discord.NewBot(cfg, store, registry)
	go confirmationListener(ctx, store, wipe)

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("bot stopped with error")
		}
		cancel()
	}

	log.Info().Msg("bot exited cleanly")
}

// confirmationListener consumes system events and runs the destructive side
// of confirmed actions, decoupled from the interaction that triggered them.
func confirmationListener(ctx context.Context, store *storage.Storage, wipe *core.WipeHistory) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-discord.SystemEvents():
			switch evt.Type {
			case discord.SystemEventConfirmationAccepted:
				guildID, ok := wipe.Resolve(evt.Token)
				if !ok {
					log.Debug().Str("token", evt.Token).Msg("confirmation token not pending, ignoring")
					continue
				}
				if err := store.ClearCommandHistory(guildID); err != nil {
					log.Error().Err(err).Str("guild", guildID).Msg("failed to wipe command history")
					continue
				}
				log.Info().Str("guild", guildID).Str("user", evt.UserID).Msg("command history wiped")
			case discord.SystemEventConfirmationRejected:
				// Drop the pending token so it cannot be replayed later.
				wipe.Resolve(evt.Token)
			case discord.SystemEventPaginationUpdate:
				log.Debug().
					Str("message", evt.MessageID).
					Int("from", evt.OldPage).
					Int("to", evt.NewPage).
					Msg("page turned")
			}
		}
	}
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	if cfg.LogFile != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
