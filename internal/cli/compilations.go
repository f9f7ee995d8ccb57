// Commands that operate on whole compilations.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List compilations, most recently changed first",
		Long: `List prints every compilation in display order. With --query only
compilations whose name contains the query, ignoring case, are shown.

Example:
  compilations list
  compilations list --query trip
  compilations list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			list, err := lib.Search(query)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), list)
			}
			return printCompilations(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only show names containing this text")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display a compilation and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			c, err := lib.Get(args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), c)
			}
			return printCompilation(cmd.OutOrStdout(), c)
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty compilation",
		Long: `Create adds an empty compilation at the front of the list. Words after
the command are joined into the name.

Example:
  compilations create Summer trip`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			c, err := lib.Create(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("create: %w", err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created compilation: %s\n", c.ID)
			return nil
		},
	}
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a compilation",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			c, err := lib.Rename(args[0], strings.Join(args[1:], " "))
			if err != nil {
				return fmt.Errorf("rename: %w", err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", c.ID, c.Name)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a compilation and all its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			if err := lib.Delete(args[0]); err != nil {
				return fmt.Errorf("delete: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted compilation: %s\n", args[0])
			return nil
		},
	}
}
