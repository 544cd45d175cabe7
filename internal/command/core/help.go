package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"bottemplate/internal/command"
	"bottemplate/internal/paginator"
	"bottemplate/internal/permissions"

	"github.com/bwmarrin/discordgo"
	"github.com/sahilm/fuzzy"
)

const maxAutocompleteChoices = 25

// Help lists the available commands as a paged embed, or shows one command
// in detail when the autocompleted option names it.
type Help struct{}

func (c *Help) Name() string        { return "help" }
func (c *Help) Description() string { return "Show a list of available commands." }

func (c *Help) Group() string              { return "Information" }
func (c *Help) Category() command.Category { return command.CategoryPublic }

func (c *Help) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "command",
				Description:  "Show details for one command",
				Autocomplete: true,
			},
		},
	}
}

func (c *Help) Run(_ context.Context, inv *command.Invocation) error {
	if name := optionString(inv.Event, "command"); name != "" {
		return c.runDetail(inv, name)
	}
	return c.runList(inv)
}

func (c *Help) runDetail(inv *command.Invocation, name string) error {
	target, ok := inv.Registry.Get(name)
	if !ok {
		return command.RespondEphemeral(inv.Session, inv.Event, fmt.Sprintf("No such command: `%s`", name))
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Group", Value: groupOrDefault(target)},
	}
	if cd := command.CooldownOf(target, inv.Config.DefaultCooldown); cd > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Cooldown", Value: cd.Round(time.Second).String(),
		})
	}
	if required := command.UserPermissionsOf(target); required != 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Required permissions",
			Value: "`" + strings.Join(permissions.NamesOf(required), "`, `") + "`",
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:       "/" + target.Name(),
		Description: target.Description(),
		Color:       command.EmbedColor,
		Fields:      fields,
	}
	return command.RespondEmbed(inv.Session, inv.Event, embed, nil)
}

func (c *Help) runList(inv *command.Invocation) error {
	cmds := c.visible(inv)
	p := paginator.New(cmds, func(cmd command.Command) (string, string) {
		return "/" + cmd.Name(), fmt.Sprintf("%s\n*%s*", cmd.Description(), groupOrDefault(cmd))
	}, paginator.Options{
		Title:   "📖 Available Commands",
		PerPage: inv.Config.PageSize,
		Color:   command.EmbedColor,
	})
	return respondPaged(inv, p)
}

// visible filters out private commands outside the home guild; the owner
// sees everything.
func (c *Help) visible(inv *command.Invocation) []command.Command {
	all := inv.Registry.All()
	out := make([]command.Command, 0, len(all))
	for _, cmd := range all {
		if command.CategoryOf(cmd) == command.CategoryPrivate &&
			inv.Event.GuildID != inv.Config.HomeGuildID &&
			!inv.Config.IsOwner(inv.User().ID) {
			continue
		}
		out = append(out, cmd)
	}
	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := groupOrDefault(out[i]), groupOrDefault(out[j])
		if gi != gj {
			return gi < gj
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

// Autocomplete fuzzy-matches the typed prefix against visible command names.
func (c *Help) Autocomplete(_ context.Context, inv *command.Invocation) error {
	names := make([]string, 0)
	for _, cmd := range c.visible(inv) {
		names = append(names, cmd.Name())
	}

	input := focusedOptionString(inv.Event)
	if input != "" {
		matches := fuzzy.Find(input, names)
		ranked := make([]string, 0, len(matches))
		for _, m := range matches {
			ranked = append(ranked, m.Str)
		}
		names = ranked
	}
	if len(names) > maxAutocompleteChoices {
		names = names[:maxAutocompleteChoices]
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, n := range names {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: n, Value: n})
	}
	return command.RespondChoices(inv.Session, inv.Event, choices)
}

func groupOrDefault(c command.Command) string {
	if g := command.GroupOf(c); g != "" {
		return g
	}
	return "General"
}

// optionString returns a named string option's value, empty when absent.
func optionString(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

// focusedOptionString returns the value of the option being autocompleted.
func focusedOptionString(i *discordgo.InteractionCreate) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Focused {
			return fmt.Sprint(opt.Value)
		}
	}
	return ""
}
