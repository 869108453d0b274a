// Package builtin provides the standard console commands.
package builtin

import (
	"github.com/danielgatis/go-termgrid/command"
	"github.com/danielgatis/go-termgrid/config"
)

// Deps are the collaborators some commands need. Nil fields leave the
// corresponding command out.
type Deps struct {
	// History returns the submitted lines, oldest first.
	History func() []string
	// Config is edited in place by the config command.
	Config *config.Config
	// ConfigPath is where "config save" writes.
	ConfigPath string
	// OnConfigChange is called after a successful "config set" or "config reset".
	OnConfigChange func(config.Config)
	// Shell is the interpreter "sh" runs lines with. Defaults to /bin/sh.
	Shell string
}

// Register adds every command deps allow to reg.
func Register(reg *command.Registry, deps Deps) error {
	cmds := []command.Command{
		Help(reg),
		Echo(),
		Clear(),
		Sleep(),
		Colors(),
		Shell(deps.Shell),
	}
	if deps.History != nil {
		cmds = append(cmds, History(deps.History))
	}
	if deps.Config != nil {
		cmds = append(cmds, Config(deps.Config, deps.ConfigPath, deps.OnConfigChange))
	}
	for _, c := range cmds {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
