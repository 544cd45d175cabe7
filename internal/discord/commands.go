package discord

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"bottemplate/internal/command"
	"bottemplate/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// syncCommands reconciles a guild's slash commands with the registry:
// obsolete remote commands are deleted, and commands whose definition hash
// changed since the last sync are created or updated.
func (b *Bot) syncCommands(guildID string) error {
	appID, err := b.appID()
	if err != nil {
		return err
	}

	remote, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("failed to list remote commands: %w", err)
	}

	local := b.commandDefinitions(guildID)
	b.deleteObsolete(appID, guildID, remote, local)
	b.upsertChanged(appID, guildID, local)
	return nil
}

// commandDefinitions returns the definitions that belong in a guild:
// public commands everywhere, private ones only in the home guild.
func (b *Bot) commandDefinitions(guildID string) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range b.registry.All() {
		if command.CategoryOf(c) == command.CategoryPrivate && guildID != b.cfg.HomeGuildID {
			continue
		}
		if def := c.SlashDefinition(); def != nil {
			if def.Type == 0 {
				def.Type = discordgo.ChatApplicationCommand
			}
			defs = append(defs, def)
		}
	}
	return defs
}

func (b *Bot) deleteObsolete(appID, guildID string, remote, local []*discordgo.ApplicationCommand) {
	localNames := make(map[string]struct{}, len(local))
	for _, d := range local {
		localNames[d.Name] = struct{}{}
	}

	hashes := loadCommandHashes(guildID)
	for _, rc := range remote {
		if _, keep := localNames[rc.Name]; keep {
			continue
		}
		log.Info().Str("guild", guildID).Str("command", rc.Name).Msg("deleting obsolete command")
		err := retrylimit.WithRetry(b.ctx, func() error {
			return b.dg.ApplicationCommandDelete(appID, guildID, rc.ID)
		}, b.registerLimiter)
		if err != nil {
			log.Error().Err(err).Str("guild", guildID).Str("command", rc.Name).Msg("failed to delete command")
			continue
		}
		delete(hashes, rc.Name)
	}
	saveCommandHashes(guildID, hashes)
}

func (b *Bot) upsertChanged(appID, guildID string, defs []*discordgo.ApplicationCommand) {
	hashes := loadCommandHashes(guildID)

	changed := 0
	for _, d := range defs {
		h := hashCommand(d)
		if hashes[d.Name] == h {
			continue
		}

		err := retrylimit.WithRetry(b.ctx, func() error {
			_, err := b.dg.ApplicationCommandCreate(appID, guildID, d)
			return err
		}, b.registerLimiter)
		if err != nil {
			log.Error().Err(err).Str("guild", guildID).Str("command", d.Name).Msg("failed to register command")
			continue
		}
		log.Info().Str("guild", guildID).Str("command", d.Name).Msg("registered command")
		hashes[d.Name] = h
		changed++
	}

	if changed > 0 {
		saveCommandHashes(guildID, hashes)
	}
}

// appID returns the bot's application ID, fetching it when State has none.
func (b *Bot) appID() (string, error) {
	if b.dg.State != nil && b.dg.State.User != nil && b.dg.State.User.ID != "" {
		return b.dg.State.User.ID, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return u.ID, nil
}

// --- Definition hash cache ---
// Skips re-registration when nothing changed since the last run.

func commandHashPath(guildID string) string {
	return filepath.Join("data", "commands", guildID+".json")
}

func loadCommandHashes(guildID string) map[string]string {
	out := make(map[string]string)
	if data, err := os.ReadFile(commandHashPath(guildID)); err == nil {
		_ = json.Unmarshal(data, &out)
	}
	return out
}

func saveCommandHashes(guildID string, hashes map[string]string) {
	path := commandHashPath(guildID)
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	if data, err := json.MarshalIndent(hashes, "", "  "); err == nil {
		_ = os.WriteFile(path, data, 0o644)
	}
}

// hashCommand returns a deterministic SHA-1 over a definition's stable fields.
func hashCommand(c *discordgo.ApplicationCommand) string {
	stable := map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"type":        c.Type,
	}
	if len(c.Options) > 0 {
		stable["options"] = normalizeOptions(c.Options)
	}
	data, _ := json.Marshal(stable)
	return fmt.Sprintf("%x", sha1.Sum(data))
}

func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]any {
	out := make([]map[string]any, len(opts))
	for i, o := range opts {
		entry := map[string]any{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
		}
		if o.Autocomplete {
			entry["autocomplete"] = true
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]any, len(o.Choices))
			for j, ch := range o.Choices {
				choices[j] = map[string]any{"name": ch.Name, "value": ch.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = normalizeOptions(o.Options)
		}
		out[i] = entry
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i]["name"].(string) < out[j]["name"].(string)
	})
	return out
}
