// Output helpers shared by the compilations CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/mesh-intelligence/compilations/pkg/types"
)

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// printCompilations writes one row per compilation.
func printCompilations(w io.Writer, list []types.Compilation) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No compilations")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tITEMS")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", c.ID, c.Name, len(c.Items))
	}
	return tw.Flush()
}

// printCompilation writes a compilation header and its items in order.
func printCompilation(w io.Writer, c types.Compilation) error {
	fmt.Fprintf(w, "ID:     %s\n", c.ID)
	fmt.Fprintf(w, "Name:   %s\n", c.Name)
	fmt.Fprintf(w, "Items:  %d\n", len(c.Items))
	if len(c.Items) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, it := range c.Items {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", it.ID, it.Content.Kind(), describeItem(it))
	}
	return tw.Flush()
}

// describeItem returns the display text of an item, with the payload size
// for images.
func describeItem(it types.Item) string {
	if img, ok := it.Content.(types.Image); ok {
		return fmt.Sprintf("%s (%s)", it.DisplayName(), humanize.Bytes(uint64(len(img.Data))))
	}
	return it.DisplayName()
}

// printItem writes a one-line confirmation for an added or edited item.
func printItem(w io.Writer, verb string, it types.Item) error {
	_, err := fmt.Fprintf(w, "%s %s %s: %s\n", verb, it.Content.Kind(), it.ID, describeItem(it))
	return err
}
