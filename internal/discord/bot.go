// Package discord wires the command core to a Discord session: it owns the
// gateway lifecycle, slash command registration, and interaction dispatch.
package discord

import (
	"context"
	"fmt"
	"time"

	"bottemplate/internal/command"
	"bottemplate/internal/config"
	"bottemplate/internal/cooldown"
	"bottemplate/internal/paginator"
	"bottemplate/internal/permissions"
	"bottemplate/internal/storage"

	"bottemplate/pkg/jobmgr"
	"bottemplate/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const sweepInterval = time.Minute

// Bot holds the session and all shared dispatch state. The registries are
// injected at construction so tests can build a fresh bot per case.
type Bot struct {
	dg         *discordgo.Session
	cfg        *config.Config
	store      *storage.Storage
	registry   *command.Registry
	cooldowns  *cooldown.Tracker
	paginators *paginator.Registry
	evaluator  *permissions.Evaluator

	// paces slash-command registration against the Discord API
	registerLimiter *retrylimit.AdaptiveLimiter

	ctx context.Context
}

// NewBot assembles a bot; Run connects it.
func NewBot(cfg *config.Config, store *storage.Storage, registry *command.Registry) *Bot {
	b := &Bot{
		cfg:             cfg,
		store:           store,
		registry:        registry,
		cooldowns:       cooldown.NewTracker(),
		paginators:      paginator.NewRegistry(cfg.PaginationTTL),
		registerLimiter: retrylimit.NewAdaptiveLimiter(20, 1, 40, 1, 0.5),
	}
	b.evaluator = permissions.NewEvaluator(&sessionResolver{bot: b}, cfg.OwnerID)
	return b
}

// Run opens the gateway session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg
	b.ctx = ctx

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	jobs := jobmgr.New(ctx)
	if err := jobs.Start("cooldown-sweeper", func(ctx context.Context) error {
		b.cooldowns.Run(ctx, sweepInterval)
		return nil
	}); err != nil {
		return err
	}
	if err := jobs.Start("paginator-sweeper", func(ctx context.Context) error {
		b.paginators.Run(ctx, sweepInterval)
		return nil
	}); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, closing session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if !b.cfg.SyncCommands {
		log.Info().Msg("slash command sync skipped")
	} else {
		for _, g := range r.Guilds {
			if err := b.syncCommands(g.ID); err != nil {
				log.Error().Err(err).Str("guild", g.ID).Msg("failed to sync commands")
			}
		}
	}
	log.Info().Str("bot", s.State.User.Username).Int("guilds", len(r.Guilds)).Msg("bot is running")
}

func (b *Bot) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	log.Info().Str("guild", g.ID).Str("name", g.Name).Msg("joined guild")
	if b.cfg.SyncCommands {
		if err := b.syncCommands(g.ID); err != nil {
			log.Error().Err(err).Str("guild", g.ID).Msg("failed to sync commands")
		}
	}
}

// invocation builds the handler context for one interaction.
func (b *Bot) invocation(s *discordgo.Session, i *discordgo.InteractionCreate) *command.Invocation {
	return &command.Invocation{
		Session:    s,
		Event:      i,
		Store:      b.store,
		Registry:   b.registry,
		Paginators: b.paginators,
		Config:     b.cfg,
	}
}

// sessionResolver adapts the live session to permissions.Resolver.
type sessionResolver struct {
	bot *Bot
}

func (r *sessionResolver) UserChannelPermissions(userID, channelID string) (int64, error) {
	return r.bot.dg.UserChannelPermissions(userID, channelID)
}

// UserGuildPermissions folds the member's role permissions into a guild-wide
// grant. The guild owner holds everything, and an Administrator role expands
// to the full grant the way Discord's channel permission helper does.
func (r *sessionResolver) UserGuildPermissions(userID, guildID string) (int64, error) {
	s := r.bot.dg
	guild, err := s.State.Guild(guildID)
	if err != nil {
		guild, err = s.Guild(guildID)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve guild %s: %w", guildID, err)
		}
	}
	if guild.OwnerID == userID {
		return discordgo.PermissionAll, nil
	}

	member, err := s.State.Member(guildID, userID)
	if err != nil {
		member, err = s.GuildMember(guildID, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve member %s: %w", userID, err)
		}
	}

	var granted int64
	for _, role := range guild.Roles {
		if role.ID == guild.ID { // @everyone
			granted |= role.Permissions
			continue
		}
		for _, roleID := range member.Roles {
			if role.ID == roleID {
				granted |= role.Permissions
				break
			}
		}
	}
	if granted&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll, nil
	}
	return granted, nil
}
