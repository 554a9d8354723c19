package auth

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the current profile",
	}
	cmd.AddCommand(cmdutil.Operation(dispatch.OpProfileGet,
		cmdutil.WithLong("Show the current profile. The returned fields prefill the next `auth profile update`.")))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpProfileUpdate,
		cmdutil.WithLong("Update the current profile. Fields not given as flags are sent as last fetched by `auth profile get`."),
		cmdutil.WithPrepare(prefillProfile)))
	return cmd
}

func prefillProfile(cmd *cobra.Command, _ []string, in *dispatch.Input) error {
	for name, value := range cmdutil.Global(cmd).ClientProvider.Workspace().Profile.Fields() {
		if _, set := in.Fields[name]; !set {
			in.Fields[name] = value
		}
	}
	return nil
}
