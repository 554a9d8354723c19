package cmd

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List every API operation and whether the session may run it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := cmdutil.Global(cmd)
			d, err := g.ClientProvider.Dispatcher(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{{"OPERATION", "METHOD", "PATH", "REQUIRES", "PERMITTED"}}
			for _, op := range dispatch.Operations() {
				permitted, err := d.Permitted(op.Name)
				if err != nil {
					return err
				}
				method, path := op.Method, op.Path
				if op.Local {
					method, path = "-", "(local)"
				}
				mark := "no"
				if permitted {
					mark = "yes"
				}
				rows = append(rows, []string{op.Name, method, path, op.Requirement.String(), mark})
			}
			return g.Printer.Table(rows)
		},
	}
}
