// Commands that add, edit, and remove items within a compilation.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/compilations/internal/library"
	"github.com/mesh-intelligence/compilations/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an item to a compilation",
		Long: `Add appends a text note, a link, or an image to the end of a compilation
and moves the compilation to the front of the list.

Example:
  compilations add text <id> bring passport
  compilations add link <id> https://example.com/route
  compilations add image <id> ./photo.png`,
	}
	cmd.AddCommand(newAddItemCmd(a, "text <id> <text>", "Append a text note",
		func(lib *library.Library, id string, args []string) (types.Item, error) {
			return lib.AddText(id, strings.Join(args, " "))
		}))
	cmd.AddCommand(newAddItemCmd(a, "link <id> <url>", "Append a link",
		func(lib *library.Library, id string, args []string) (types.Item, error) {
			return lib.AddLink(id, args[0])
		}))
	cmd.AddCommand(newAddItemCmd(a, "image <id> <file>", "Append an image read from a file",
		func(lib *library.Library, id string, args []string) (types.Item, error) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return types.Item{}, userError(err)
			}
			return lib.AddImage(id, data)
		}))
	return cmd
}

// addFunc appends one item built from the arguments after the compilation id.
type addFunc func(lib *library.Library, id string, args []string) (types.Item, error)

func newAddItemCmd(a *app, use, short string, add addFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			item, err := add(lib, args[0], args[1:])
			if err != nil {
				return fmt.Errorf("add %s: %w", cmd.Name(), err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), item)
			}
			return printItem(cmd.OutOrStdout(), "Added", item)
		},
	}
}

func newEditLinkCmd(a *app) *cobra.Command {
	var name, url string
	cmd := &cobra.Command{
		Use:   "edit-link <id> <item-id>",
		Short: "Change the name and URL of a link",
		Long: `Edit-link replaces a link's name and URL in place. The item keeps its id
and position. An empty --name removes the name so the URL is displayed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			item, err := lib.EditLink(args[0], args[1], name, url)
			if err != nil {
				return fmt.Errorf("edit-link: %w", err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), item)
			}
			return printItem(cmd.OutOrStdout(), "Updated", item)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name for the link")
	cmd.Flags().StringVar(&url, "url", "", "link URL (required)")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newRemoveItemCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-item <id> <item-id>",
		Short: "Remove an item from a compilation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			if err := lib.RemoveItem(args[0], args[1]); err != nil {
				return fmt.Errorf("remove-item: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed item %s from %s\n", args[1], args[0])
			return nil
		},
	}
}
