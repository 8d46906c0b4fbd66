package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/statetree/pkg/template"
)

func parseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <name>",
		Short: "Print the definition tree of a template",
		Long: `Parse a template, resolving its includes, and print the resulting
definition tree.

Examples:
  statetree parse card.html
  statetree parse -C site pages/home.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := a.newLoader(prometheus.NewRegistry())
			def, err := l.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return template.Fprint(cmd.OutOrStdout(), def)
		},
	}
}
