package core

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"bottemplate/internal/command"
	"bottemplate/internal/version"

	"github.com/bwmarrin/discordgo"
)

// About shows the bot's identity and build information.
type About struct{}

func (c *About) Name() string        { return "about" }
func (c *About) Description() string { return "Shows info about the bot." }

func (c *About) Group() string              { return "Information" }
func (c *About) Category() command.Category { return command.CategoryPublic }

func (c *About) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *About) Run(_ context.Context, inv *command.Invocation) error {
	embed := buildAboutEmbed()
	return command.RespondEmbed(inv.Session, inv.Event, embed, nil)
}

func buildAboutEmbed() *discordgo.MessageEmbed {
	goVer := strings.TrimPrefix(runtime.Version(), "go")
	return &discordgo.MessageEmbed{
		Description: fmt.Sprintf("ℹ️ About\n\n**%s** — %s", version.AppName, version.AppDescription),
		Color:       command.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Version", Value: fmt.Sprintf("%s (Go %s)", version.AppVersion, goVer)},
		},
	}
}
