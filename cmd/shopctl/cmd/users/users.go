package users

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

// NewCommand returns the users command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administer user accounts",
	}
	cmd.AddCommand(cmdutil.Operation(dispatch.OpUsersList,
		cmdutil.WithLong("List all users. The first user listed becomes the current user.")))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpUsersGet))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpUsersUpdate,
		cmdutil.WithLong("Update a user. Without flags the user is promoted to a verified, active admin.")))
	return cmd
}
