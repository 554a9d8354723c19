package tracking

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

// NewCommand returns the tracking command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracking",
		Short: "Record and show order shipment tracking",
	}
	cmd.AddCommand(cmdutil.Operation(dispatch.OpTrackingAdd))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpTrackingGet))
	return cmd
}
