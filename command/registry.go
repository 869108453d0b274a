package command

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// Registry maps names to commands.
type Registry struct {
	commands map[string]Command
}

// NewRegistry returns a registry holding cmds. It panics on duplicate names.
func NewRegistry(cmds ...Command) *Registry {
	r := &Registry{commands: make(map[string]Command)}
	for _, c := range cmds {
		r.MustRegister(c)
	}
	return r
}

// Register adds cmd under its name.
func (r *Registry) Register(cmd Command) error {
	name := cmd.Name()
	if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return &Error{Kind: ErrUsage, Detail: "invalid command name " + strconv.Quote(name)}
	}
	if _, ok := r.commands[name]; ok {
		return &Error{Kind: ErrDuplicateCommand, Command: name}
	}
	r.commands[name] = cmd
	return nil
}

// MustRegister is Register for static setup. It panics on error.
func (r *Registry) MustRegister(cmd Command) {
	if err := r.Register(cmd); err != nil {
		panic(err)
	}
}

// Unregister removes name. It returns false if it was not registered.
func (r *Registry) Unregister(name string) bool {
	if _, ok := r.commands[name]; !ok {
		return false
	}
	delete(r.commands, name)
	return true
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for n := range r.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Commands returns the registered commands sorted by name.
func (r *Registry) Commands() []Command {
	names := r.Names()
	out := make([]Command, len(names))
	for i, n := range names {
		out[i] = r.commands[n]
	}
	return out
}

// Resolve splits line and finds its command. A blank line returns a nil
// command and no error.
func (r *Registry) Resolve(line string) (Command, []string, error) {
	args, err := Split(line)
	if err != nil {
		return nil, nil, err
	}
	if len(args) == 0 {
		return nil, nil, nil
	}
	cmd, ok := r.commands[args[0]]
	if !ok {
		return nil, args, &Error{Kind: ErrUnknownCommand, Command: args[0]}
	}
	return cmd, args, nil
}

// Complete returns ranked candidates for the last word of line, and that
// word. A line ending in whitespace completes a new, empty word.
func (r *Registry) Complete(line string) ([]string, string) {
	args, err := Split(line)
	if err != nil {
		return nil, ""
	}

	prefix := ""
	if len(args) > 0 && !endsInSpace(line) {
		prefix = args[len(args)-1]
		args = args[:len(args)-1]
	}

	if len(args) == 0 {
		return Rank(prefix, r.Names()), prefix
	}
	cmd, ok := r.commands[args[0]]
	if !ok {
		return nil, prefix
	}
	c, ok := cmd.(Completer)
	if !ok {
		return nil, prefix
	}
	return Rank(prefix, c.Completions(args[1:], prefix)), prefix
}

// Rank orders candidates for prefix. Prefix matches come first in sorted
// order; without any, fuzzy matches are returned best first.
func Rank(prefix string, candidates []string) []string {
	uniq := dedupe(candidates)
	if prefix == "" {
		sort.Strings(uniq)
		return uniq
	}

	var matches []string
	for _, c := range uniq {
		if strings.HasPrefix(c, prefix) {
			matches = append(matches, c)
		}
	}
	if len(matches) > 0 {
		sort.Strings(matches)
		return matches
	}

	for _, m := range fuzzy.Find(prefix, uniq) {
		matches = append(matches, m.Str)
	}
	return matches
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func endsInSpace(s string) bool {
	if s == "" {
		return true
	}
	r := []rune(s)
	return unicode.IsSpace(r[len(r)-1])
}
