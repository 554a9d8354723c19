package analytics

import (
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

// NewCommand returns the analytics command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show admin analytics and audit logs",
	}
	cmd.AddCommand(cmdutil.Operation(dispatch.OpAnalyticsSummary))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpAnalyticsSales))
	cmd.AddCommand(cmdutil.Operation(dispatch.OpAnalyticsAudit))
	return cmd
}
