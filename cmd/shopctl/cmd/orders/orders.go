package orders

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

// NewCommand returns the orders command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Place and manage orders",
		Long: `Commands for placing orders from the pending order draft and managing them.

Build the draft with "shopctl orders items", then place it with "shopctl orders create".`,
	}
	cmd.AddCommand(cmdutil.Operation(dispatch.OpOrdersCreate,
		cmdutil.WithLong(`Place the pending order draft. The draft is kept for reuse.

The created order becomes the current order and seeds the payment draft.`)))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpOrdersList))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpOrdersGet))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpOrdersStatus))
	cmd.AddCommand(newItemsCmd())
	return cmd
}
