package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newConfigCmd creates the config command group
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and write topk configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "view",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(a.config)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the effective configuration to a file",
		Long: `Write the effective configuration to PATH, or to the --config file,
or to $HOME/.topk.yaml when neither is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if err := a.manager.Save(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration written")
			return nil
		},
	})

	return cmd
}
