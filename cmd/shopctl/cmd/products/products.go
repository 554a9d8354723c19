package products

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

// NewCommand returns the products command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage catalog products",
	}
	cmd.AddCommand(cmdutil.Operation(dispatch.OpProductsCreate,
		cmdutil.WithLong(`Create a product. The created product becomes the current product.

Prices are parsed as decimals; --tags takes a comma separated list.`)))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpProductsList))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpProductsGet))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpProductsUpdate,
		cmdutil.WithLong("Update a product. Only the flags given are sent.")))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpProductsDelete))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpProductReviews))
	return cmd
}
