package main

import (
	"github.com/spf13/cobra"
)

func newRulesCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective goal and injury rules as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := opts.loadRules(cmd.Context()).YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
