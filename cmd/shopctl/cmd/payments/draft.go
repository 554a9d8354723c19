package payments

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

func newDraftCmd() *cobra.Command {
	op, _ := dispatch.Lookup(dispatch.OpPaymentsCreate)
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Show or edit the payment draft",
		Long:  `Show the payment draft. Flags given update the draft before it is shown.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := cmdutil.CollectInput(cmd, op, "", nil)
			if err != nil {
				return err
			}
			g := cmdutil.Global(cmd)
			payment := g.ClientProvider.Workspace().Payment
			for name, value := range in.Fields {
				payment.Set(name, value)
			}

			fields := payment.Fields()
			rows := [][]string{{"FIELD", "VALUE"}}
			for _, f := range op.Fields {
				rows = append(rows, []string{f.Name, fields[f.Name]})
			}
			return g.Printer.Table(rows)
		},
	}
	for _, f := range op.Fields {
		cmd.Flags().String(cmdutil.FlagName(f.Name), "", f.Usage)
	}
	return cmd
}
