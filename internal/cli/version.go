package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/compilations/pkg/compilations"
)

const modulePath = "github.com/mesh-intelligence/compilations"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the compilations version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "compilations %s\nmodule: %s\n", compilations.Version, modulePath)
		},
	}
}
