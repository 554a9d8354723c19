package refs

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/refs"
)

// NewCommand returns the refs command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs",
		Short: "Show or override the current entity references",
		Long: `Creating an entity, or listing users, remembers its ID as the current one
for its kind. Commands that take an ID use the current one when none is given.

References are never invalidated; a deleted entity stays current until replaced.`,
	}
	cmd.AddCommand(newShowCmd(), newSetCmd())
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current reference of every kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := cmdutil.Global(cmd)
			cache := g.ClientProvider.Workspace().Refs
			rows := [][]string{{"KIND", "ID"}}
			for _, kind := range refs.Kinds() {
				id, ok := cache.Get(kind)
				if !ok {
					id = "-"
				}
				rows = append(rows, []string{string(kind), id})
			}
			return g.Printer.Table(rows)
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <kind> <id>",
		Short: "Override the current reference of a kind",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := refs.ParseKind(args[0])
			if err != nil {
				return err
			}
			if args[1] == "" {
				return fmt.Errorf("id must not be empty")
			}
			cmdutil.Global(cmd).ClientProvider.Workspace().Refs.RecordCreated(kind, args[1])
			return nil
		},
	}
}
