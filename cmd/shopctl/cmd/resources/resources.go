package resources

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

// NewCommand returns the resources command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Manage digital resources",
	}
	cmd.AddCommand(cmdutil.Operation(dispatch.OpResourcesCreate))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpResourcesList))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpResourcesGet))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpResourcesDownload))
	return cmd
}
