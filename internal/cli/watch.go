package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/compilations/pkg/types"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the list whenever another process changes it",
		Long: `Watch reports every change written to the shared store, for example by a
share from another application, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Watching", s.Path())
			return s.Watch(ctx, func(list []types.Compilation, err error) {
				if errors.Is(err, types.ErrNoData) {
					list, err = []types.Compilation{}, nil
				}
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "reload failed:", err)
					return
				}
				if a.flags.jsonMode {
					_ = printJSON(out, list)
					return
				}
				_ = printCompilations(out, list)
			})
		},
	}
}
