package auth

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/cmd/cmdutil"
	"github.com/terraconstructs/shopctl/pkg/sdk"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Display the session status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := cmdutil.Global(cmd)
			store, err := g.ClientProvider.Session(cmd.Context())
			if err != nil {
				return err
			}
			out := g.Printer.Out

			creds, ok := store.Credential()
			if !ok {
				fmt.Fprintln(out, "Status: Not logged in")
				return nil
			}
			fmt.Fprintf(out, "Status: Logged in as %s\n", creds.Role)
			fmt.Fprintf(out, "Server: %s\n", g.ClientProvider.ServerURL())

			// Opaque tokens carry nothing more to show.
			claims, err := sdk.DecodeToken(creds.Token)
			if err != nil {
				return nil
			}
			if claims.Subject != "" {
				fmt.Fprintf(out, "Subject: %s\n", claims.Subject)
			}
			if !claims.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "Token expires: %s\n", claims.ExpiresAt.Format(time.RFC1123))
				if time.Now().After(claims.ExpiresAt) {
					pterm.Warning.WithWriter(g.Printer.Err).Println("Token has expired; run `shopctl auth login`")
				}
			}
			return nil
		},
	}
}
