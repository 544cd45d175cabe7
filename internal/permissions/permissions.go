// Package permissions decides whether an actor may run a command, and which
// capabilities are missing when they may not.
package permissions

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Resolver supplies effective permission grants. The channel variant accounts
// for channel-level overwrites; the guild variant is the actor's global grant.
type Resolver interface {
	UserChannelPermissions(userID, channelID string) (int64, error)
	UserGuildPermissions(userID, guildID string) (int64, error)
}

// Result is the outcome of an evaluation. Missing lists canonical permission
// names and is only populated on a denial caused by an insufficient grant.
type Result struct {
	Allowed bool
	Missing []string
}

// Evaluator is a pure query over a Resolver: it holds no cache and mutates
// nothing.
type Evaluator struct {
	resolver Resolver
	ownerID  string
}

// NewEvaluator returns an evaluator. ownerID may be empty, disabling the
// owner bypass.
func NewEvaluator(resolver Resolver, ownerID string) *Evaluator {
	return &Evaluator{resolver: resolver, ownerID: ownerID}
}

// Evaluate checks required bits against the actor's effective grant.
// An empty required set always passes. The configured owner always passes.
// A grant carrying Administrator passes everything; Discord treats it as an
// implicit full grant. When channelID is set the channel-scoped grant is
// used, otherwise the guild-wide grant. Resolver failures deny with an empty
// missing set; the error is logged, never surfaced to the caller.
func (e *Evaluator) Evaluate(userID, guildID, channelID string, required int64) Result {
	if required == 0 {
		return Result{Allowed: true}
	}
	if e.ownerID != "" && userID == e.ownerID {
		return Result{Allowed: true}
	}

	var granted int64
	var err error
	if channelID != "" {
		granted, err = e.resolver.UserChannelPermissions(userID, channelID)
	} else {
		granted, err = e.resolver.UserGuildPermissions(userID, guildID)
	}
	if err != nil {
		log.Warn().Err(err).
			Str("user", userID).
			Str("guild", guildID).
			Str("channel", channelID).
			Msg("permission resolution failed, denying")
		return Result{}
	}

	if granted&discordgo.PermissionAdministrator != 0 {
		return Result{Allowed: true}
	}

	missing := required &^ granted
	if missing == 0 {
		return Result{Allowed: true}
	}
	return Result{Missing: NamesOf(missing)}
}
