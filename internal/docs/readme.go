// Package docs renders the command reference section of README.md from the
// live registry, so the documented command list never drifts from the code.
package docs

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"text/template"

	"bottemplate/internal/command"

	"github.com/rs/zerolog/log"
)

// UpdateReadme regenerates README.md from README.md.tmpl, filling in the
// command sections grouped by each command's group label.
func UpdateReadme(registry *command.Registry) error {
	tmpl, err := template.ParseFiles("README.md.tmpl")
	if err != nil {
		return fmt.Errorf("failed to parse readme template: %w", err)
	}

	f, err := os.Create("README.md")
	if err != nil {
		return fmt.Errorf("failed to create README.md: %w", err)
	}
	defer f.Close()

	data := struct {
		CommandSections string
	}{
		CommandSections: CommandSections(registry),
	}
	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render readme: %w", err)
	}

	log.Info().Msg("README.md updated with current commands")
	return nil
}

// CommandSections renders the registry as markdown, one section per group.
func CommandSections(registry *command.Registry) string {
	cmds := registry.All()
	sort.SliceStable(cmds, func(i, j int) bool {
		gi, gj := groupOf(cmds[i]), groupOf(cmds[j])
		if gi != gj {
			return gi < gj
		}
		return cmds[i].Name() < cmds[j].Name()
	})

	var buf bytes.Buffer
	current := ""
	for _, c := range cmds {
		if g := groupOf(c); g != current {
			if current != "" {
				buf.WriteString("\n")
			}
			current = g
			fmt.Fprintf(&buf, "### %s\n\n", current)
		}
		suffix := ""
		if command.CategoryOf(c) == command.CategoryPrivate {
			suffix = " *(home guild only)*"
		}
		fmt.Fprintf(&buf, "- **/%s** — %s%s\n", c.Name(), c.Description(), suffix)
	}
	return buf.String()
}

func groupOf(c command.Command) string {
	if g := command.GroupOf(c); g != "" {
		return g
	}
	return "General"
}
