package builtin

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielgatis/go-termgrid/command"
	"github.com/danielgatis/go-termgrid/config"
)

// Config inspects and edits cfg. Changes take effect through onChange.
func Config(cfg *config.Config, path string, onChange func(config.Config)) command.Command {
	notify := func() {
		if onChange != nil {
			onChange(*cfg)
		}
	}
	completeNames := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return config.Names(), cobra.ShellCompDirectiveNoFileComp
	}

	root := &cobra.Command{
		Use:   "config",
		Short: "config get|set|reset|list|save",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "print every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.Names() {
				v, _ := cfg.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %q\n", name, v)
			}
			return nil
		},
	}
	get := &cobra.Command{
		Use:               "get <name>",
		Short:             "print one setting",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
	set := &cobra.Command{
		Use:               "set <name> <value>",
		Short:             "change one setting",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			notify()
			return nil
		},
	}
	reset := &cobra.Command{
		Use:               "reset <name>",
		Short:             "restore one setting to its default",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Reset(args[0]); err != nil {
				return err
			}
			notify()
			return nil
		},
	}
	save := &cobra.Command{
		Use:   "save",
		Short: "write the settings to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return errors.New("no config file path")
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
			return nil
		},
	}
	root.AddCommand(list, get, set, reset, save)
	return command.CobraSync(root)
}
