package reviews

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

// NewCommand returns the reviews command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Write product and service reviews",
	}
	cmd.AddCommand(cmdutil.Operation(dispatch.OpReviewsCreate))
	return cmd
}
