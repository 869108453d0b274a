package main

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/danielgatis/go-termgrid/command"
	"github.com/danielgatis/go-termgrid/command/builtin"
	"github.com/danielgatis/go-termgrid/config"
	"github.com/danielgatis/go-termgrid/console"
	"github.com/danielgatis/go-termgrid/internal/logging"
	"github.com/danielgatis/go-termgrid/session"
)

type options struct {
	configPath string
	logFile    string
	logLevel   string
	session    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "termgrid",
		Short: "Command console on a terminal grid",
		Long:  "termgrid runs an interactive command console. Without a subcommand it starts the console in the current terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default is termgrid/config.json in the user config dir)")
	f.StringVar(&opts.logFile, "log-file", "", "append logs to this file")
	f.StringVar(&opts.logLevel, "log-level", "", "override the configured log level")
	f.StringVar(&opts.session, "session", console.DEFAULT_SESSION_NAME, "session name in the store")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "print wrapped error causes")

	root.AddCommand(newRunCmd(opts), newExecCmd(opts), newSchemaCmd())
	return root
}

// env is the loaded configuration and logger shared by the subcommands.
type env struct {
	cfg        config.Config
	configPath string
	logger     *log.Logger
	logCloser  io.Closer
}

func (o *options) load() (*env, error) {
	path := o.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Verbose = true
	}

	level := cfg.Level()
	if o.logLevel != "" {
		if level, err = log.ParseLevel(o.logLevel); err != nil {
			return nil, err
		}
	}
	logger, closer, err := logging.OpenFile(o.logFile, level)
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", "path", path, "platform", cfg.KeyPlatform())
	return &env{cfg: cfg, configPath: path, logger: logger, logCloser: closer}, nil
}

func (e *env) Close() error {
	return e.logCloser.Close()
}

func (e *env) openStore() (session.Store, error) {
	if e.cfg.StorePath == "" {
		return session.NewMemoryStore(), nil
	}
	return session.OpenSQLite(e.cfg.StorePath)
}

// host couples a console with the settings the config command edits.
type host struct {
	con      *console.Console
	settings *config.Config
	logger   *log.Logger
}

// newHost builds a console with the builtin commands. A nil store keeps
// nothing between runs.
func (e *env) newHost(store session.Store, name string, opts ...console.Option) (*host, error) {
	reg := command.NewRegistry()
	base := []console.Option{
		console.WithConfig(e.cfg),
		console.WithRegistry(reg),
		console.WithLogger(e.logger),
	}
	if store != nil {
		base = append(base, console.WithStore(store, name))
	}

	h := &host{logger: e.logger}
	h.con = console.New(append(base, opts...)...)
	settings := h.con.Config()
	h.settings = &settings

	err := builtin.Register(reg, builtin.Deps{
		History:        h.con.History().Entries,
		Config:         h.settings,
		ConfigPath:     e.configPath,
		OnConfigChange: h.apply,
	})
	if err != nil {
		return nil, errors.Join(err, h.con.Close())
	}
	return h, nil
}

// apply switches the console to cfg. It runs on the dispatcher.
func (h *host) apply(cfg config.Config) {
	if err := h.con.ApplyConfig(cfg); err != nil {
		h.logger.Warn("config rejected", "err", err)
		return
	}
	*h.settings = cfg
}
