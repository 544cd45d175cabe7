// Package paginator renders ordered item lists as paged embeds with a
// first/prev/next/last navigation row, and tracks live pagers by message ID.
package paginator

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Navigation button custom IDs. The dispatcher routes on these prefixes the
// same way command components are routed.
const (
	CustomIDFirst     = "paginator_first"
	CustomIDPrev      = "paginator_prev"
	CustomIDIndicator = "paginator_page"
	CustomIDNext      = "paginator_next"
	CustomIDLast      = "paginator_last"
)

const DefaultPerPage = 5

// FormatFunc renders one item as an embed field.
type FormatFunc[T any] func(item T) (name, value string)

// Options controls the embed chrome around the paged items.
type Options struct {
	Title        string
	Description  string
	PerPage      int
	FooterPrefix string
	Color        int
}

// Render is one page ready to send: the embed and its navigation row.
type Render struct {
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// Pager is the non-generic face of a controller, stored in the Registry.
type Pager interface {
	PageCount() int
	CurrentPage() int
	Page(n int) *Render
}

// Controller slices a fixed item list into pages. The item list never
// mutates after construction; only the current page index does.
type Controller[T any] struct {
	items  []T
	format FormatFunc[T]
	opts   Options

	mu        sync.Mutex
	current   int
	pageCount int
}

// New builds a controller. An empty item list is treated as a single empty
// page so navigation math never sees a page count of zero.
func New[T any](items []T, format FormatFunc[T], opts Options) *Controller[T] {
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultPerPage
	}
	pageCount := (len(items) + opts.PerPage - 1) / opts.PerPage
	if pageCount == 0 {
		pageCount = 1
	}
	return &Controller[T]{
		items:     items,
		format:    format,
		opts:      opts,
		pageCount: pageCount,
	}
}

// PageCount is fixed at construction.
func (c *Controller[T]) PageCount() int { return c.pageCount }

// CurrentPage returns the page index of the most recent render.
func (c *Controller[T]) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Clamp bounds n into [0, pageCount-1]. Navigation never wraps or errors.
func (c *Controller[T]) Clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > c.pageCount-1 {
		return c.pageCount - 1
	}
	return n
}

// Page renders page n (clamped) and records it as the current page.
func (c *Controller[T]) Page(n int) *Render {
	n = c.Clamp(n)
	c.mu.Lock()
	c.current = n
	c.mu.Unlock()

	start := n * c.opts.PerPage
	end := start + c.opts.PerPage
	if start > len(c.items) {
		start = len(c.items)
	}
	if end > len(c.items) {
		end = len(c.items)
	}

	fields := make([]*discordgo.MessageEmbedField, 0, end-start)
	for _, item := range c.items[start:end] {
		name, value := c.format(item)
		fields = append(fields, &discordgo.MessageEmbedField{Name: name, Value: value})
	}

	footer := fmt.Sprintf("Page %d/%d", n+1, c.pageCount)
	if c.opts.FooterPrefix != "" {
		footer = c.opts.FooterPrefix + " • " + footer
	}

	embed := &discordgo.MessageEmbed{
		Title:       c.opts.Title,
		Description: c.opts.Description,
		Fields:      fields,
		Color:       c.opts.Color,
		Footer:      &discordgo.MessageEmbedFooter{Text: footer},
	}

	return &Render{
		Embed:      embed,
		Components: []discordgo.MessageComponent{NavRow(n, c.pageCount)},
	}
}

// NavRow builds the navigation row for page n of total. Buttons that would
// be no-ops are disabled; the middle indicator carries the "current/total"
// label the dispatcher parses back on a click.
func NavRow(n, total int) discordgo.MessageComponent {
	onFirst := n <= 0
	onLast := n >= total-1
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: "⏮", Style: discordgo.SecondaryButton, CustomID: CustomIDFirst, Disabled: onFirst},
		discordgo.Button{Label: "◀", Style: discordgo.PrimaryButton, CustomID: CustomIDPrev, Disabled: onFirst},
		discordgo.Button{Label: fmt.Sprintf("%d/%d", n+1, total), Style: discordgo.SecondaryButton, CustomID: CustomIDIndicator, Disabled: true},
		discordgo.Button{Label: "▶", Style: discordgo.PrimaryButton, CustomID: CustomIDNext, Disabled: onLast},
		discordgo.Button{Label: "⏭", Style: discordgo.SecondaryButton, CustomID: CustomIDLast, Disabled: onLast},
	}}
}

// ParsePageLabel recovers the 0-based page index and page count from an
// indicator label in "current/total" form.
func ParsePageLabel(label string) (page, total int, err error) {
	cur, rest, ok := strings.Cut(label, "/")
	if !ok {
		return 0, 0, fmt.Errorf("malformed page label %q", label)
	}
	c, err := strconv.Atoi(strings.TrimSpace(cur))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed page label %q: %w", label, err)
	}
	t, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed page label %q: %w", label, err)
	}
	if c < 1 || t < 1 || c > t {
		return 0, 0, fmt.Errorf("page label %q out of range", label)
	}
	return c - 1, t, nil
}
