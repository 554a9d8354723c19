package auth

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

// NewCommand returns the parent command for session operations.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the session",
		Long:  `Commands for registering, logging in and out, and managing the current profile.`,
	}
	cmd.AddCommand(cmdutil.Operation(dispatch.OpRegister))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpLogin))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpLogout,
		cmdutil.WithLong("Forget the stored credential. No request is sent and logging out twice is harmless.")))
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newProfileCmd())
	return cmd
}
