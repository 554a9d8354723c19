package payments

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

// NewCommand returns the payments command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Pay for orders",
	}
	cmd.AddCommand(cmdutil.Operation(dispatch.OpPaymentsCreate,
		cmdutil.WithLong(`Pay for an order. Values from the payment draft are used for flags not given.

Placing an order links the draft to it, so "shopctl payments create --amount 10" pays the last order.`)))
	cmd.AddCommand(newDraftCmd())
	return cmd
}
