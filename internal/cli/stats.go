package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show item counts per compilation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			stats, err := lib.Stats()
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), stats)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLINKS\tIMAGES\tTEXTS\tIMAGE SIZE")
			for _, s := range stats {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n",
					s.Name, s.Links, s.Images, s.Texts, humanize.Bytes(uint64(s.ImageBytes)))
			}
			return tw.Flush()
		},
	}
}
