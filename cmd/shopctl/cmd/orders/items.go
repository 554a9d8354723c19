package orders

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/internal/dispatch"
	"github.com/terraconstructs/shopctl/internal/draft"
)

type lineFlags struct {
	kind     string
	itemID   string
	quantity string
	variant  string
}

func (f *lineFlags) register(cmd *cobra.Command, defaults draft.LineItem) {
	cmd.Flags().StringVar(&f.kind, "kind", string(defaults.Kind), "Item kind: product, service or resource")
	cmd.Flags().StringVar(&f.itemID, "item-id", defaults.ItemID, "Catalog item ID")
	cmd.Flags().StringVar(&f.quantity, "quantity", strconv.Itoa(defaults.Quantity), "Quantity (1 when not numeric)")
	cmd.Flags().StringVar(&f.variant, "variant", defaults.Variant, "Variant (size, color, ...)")
}

// apply overlays the flags the operator set on item.
func (f *lineFlags) apply(cmd *cobra.Command, item draft.LineItem) draft.LineItem {
	if cmd.Flags().Changed("kind") {
		item.Kind = draft.ItemKind(f.kind)
	}
	if cmd.Flags().Changed("item-id") {
		item.ItemID = f.itemID
	}
	if cmd.Flags().Changed("quantity") {
		item.Quantity = dispatch.ParseIntDefault(f.quantity, 1)
	}
	if cmd.Flags().Changed("variant") {
		item.Variant = f.variant
	}
	return item
}

func newItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Edit the pending order draft",
		Long: `Edit the line items of the pending order draft.

The draft always holds at least one line; removing the last one leaves it in place.
Lines are numbered from 1.`,
	}
	cmd.AddCommand(newItemsShowCmd(), newItemsAddCmd(), newItemsEditCmd(), newItemsRemoveCmd(), newItemsResetCmd())
	return cmd
}

func newItemsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the pending order draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printItems(cmd)
		},
	}
}

func newItemsAddCmd() *cobra.Command {
	var flags lineFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a line item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order := cmdutil.Global(cmd).ClientProvider.Workspace().Order
			if _, err := order.Add(flags.apply(cmd, draft.DefaultLineItem())); err != nil {
				return err
			}
			return printItems(cmd)
		},
	}
	flags.register(cmd, draft.DefaultLineItem())
	return cmd
}

func newItemsEditCmd() *cobra.Command {
	var flags lineFlags
	cmd := &cobra.Command{
		Use:   "edit <line>",
		Short: "Change a line item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseLine(args[0])
			if err != nil {
				return err
			}
			order := cmdutil.Global(cmd).ClientProvider.Workspace().Order
			item, err := order.Item(index)
			if err != nil {
				return err
			}
			if err := order.Update(index, flags.apply(cmd, item)); err != nil {
				return err
			}
			return printItems(cmd)
		},
	}
	flags.register(cmd, draft.DefaultLineItem())
	return cmd
}

func newItemsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <line>",
		Short: "Remove a line item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseLine(args[0])
			if err != nil {
				return err
			}
			order := cmdutil.Global(cmd).ClientProvider.Workspace().Order
			if _, err := order.Remove(index); err != nil {
				return err
			}
			return printItems(cmd)
		},
	}
}

func newItemsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the draft to a single blank line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdutil.Global(cmd).ClientProvider.Workspace().Order.Reset()
			return printItems(cmd)
		},
	}
}

func parseLine(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("line must be a positive number, got %q", arg)
	}
	return n - 1, nil
}

func printItems(cmd *cobra.Command) error {
	g := cmdutil.Global(cmd)
	rows := [][]string{{"LINE", "KIND", "ITEM ID", "QUANTITY", "VARIANT"}}
	for i, item := range g.ClientProvider.Workspace().Order.Items() {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			string(item.Kind),
			orDash(item.ItemID),
			strconv.Itoa(item.Quantity),
			orDash(item.Variant),
		})
	}
	return g.Printer.Table(rows)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
