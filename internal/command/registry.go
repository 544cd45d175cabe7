package command

import "sort"

// Registry stores commands by unique name. It is populated once at startup
// and read-only afterwards, so lookups need no locking. An instance is
// injected into the dispatcher rather than living as a package global, so
// tests can build a fresh one per case.
type Registry struct {
	commands map[string]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds commands, replacing any earlier command with the same name.
func (r *Registry) Register(cmds ...Command) {
	for _, c := range cmds {
		r.commands[c.Name()] = c
	}
}

// Get returns the command with the given name.
func (r *Registry) Get(name string) (Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// All returns all registered commands, sorted by name.
func (r *Registry) All() []Command {
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
