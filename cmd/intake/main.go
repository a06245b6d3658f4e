// Command intake runs the booking intake service.
//
//	intake serve                    HTTP server, notification worker, health monitor
//	intake submit --file b.json     one intake from the command line
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "intake",
		Short:         "Booking intake for the Shopify customer platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newSubmitCmd())

	return root
}
