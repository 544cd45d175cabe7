// Package command defines the command contract, the registry the dispatcher
// looks commands up in, and the middleware plumbing around handlers.
package command

import (
	"context"
	"time"

	"bottemplate/internal/config"
	"bottemplate/internal/paginator"
	"bottemplate/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// Category controls where a command is registered: public commands go to
// every guild, private ones only to the configured home guild.
type Category string

const (
	CategoryPublic  Category = "public"
	CategoryPrivate Category = "private"
)

// Command is the universal contract: identity, slash definition, execution.
// Cooldowns, permissions and grouping are declared through the optional
// interfaces below.
type Command interface {
	Name() string
	Description() string
	SlashDefinition() *discordgo.ApplicationCommand
	Run(ctx context.Context, inv *Invocation) error
}

// CooldownProvider overrides the process-wide default cooldown.
type CooldownProvider interface {
	Cooldown() time.Duration
}

// PermissionRequirer declares the permission bits the invoking user and the
// bot's own identity must hold in the target scope.
type PermissionRequirer interface {
	UserPermissions() int64
	BotPermissions() int64
}

// Categorized declares visibility and an optional grouping label.
type Categorized interface {
	Category() Category
	Group() string
}

// AutocompleteHandler is implemented by commands that serve autocomplete
// requests for their options.
type AutocompleteHandler interface {
	Autocomplete(ctx context.Context, inv *Invocation) error
}

// ComponentHandler is implemented by commands that own message components;
// the dispatcher routes clicks by custom ID prefix.
type ComponentHandler interface {
	Component(ctx context.Context, inv *Invocation) error
}

// Invocation carries everything a handler needs for one interaction.
type Invocation struct {
	Session    *discordgo.Session
	Event      *discordgo.InteractionCreate
	Store      *storage.Storage
	Registry   *Registry
	Paginators *paginator.Registry
	Config     *config.Config
}

// User resolves the invoking user from a guild or DM interaction.
func (inv *Invocation) User() *discordgo.User {
	e := inv.Event
	if e.Member != nil && e.Member.User != nil {
		return e.Member.User
	}
	if e.User != nil {
		return e.User
	}
	return &discordgo.User{ID: "unknown", Username: "Unknown"}
}

// CooldownOf returns a command's cooldown, falling back to def when the
// command declares none.
func CooldownOf(c Command, def time.Duration) time.Duration {
	if p, ok := Root(c).(CooldownProvider); ok {
		return p.Cooldown()
	}
	return def
}

// UserPermissionsOf returns the permission bits required from the invoking
// user, zero if undeclared.
func UserPermissionsOf(c Command) int64 {
	if p, ok := Root(c).(PermissionRequirer); ok {
		return p.UserPermissions()
	}
	return 0
}

// BotPermissionsOf returns the permission bits required from the bot itself,
// zero if undeclared.
func BotPermissionsOf(c Command) int64 {
	if p, ok := Root(c).(PermissionRequirer); ok {
		return p.BotPermissions()
	}
	return 0
}

// CategoryOf returns a command's visibility category, public if undeclared.
func CategoryOf(c Command) Category {
	if p, ok := Root(c).(Categorized); ok {
		return p.Category()
	}
	return CategoryPublic
}

// GroupOf returns a command's grouping label, empty if undeclared.
func GroupOf(c Command) string {
	if p, ok := Root(c).(Categorized); ok {
		return p.Group()
	}
	return ""
}
