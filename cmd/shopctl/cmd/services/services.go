package services

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

// NewCommand returns the services command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Manage bookable services",
	}
	cmd.AddCommand(cmdutil.Operation(dispatch.OpServicesCreate))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpServicesList))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpServicesGet))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpServicesUpdate,
		cmdutil.WithLong("Update a service. Only the flags given are sent.")))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpServicesDelete))
	return cmd
}
