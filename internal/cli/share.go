// Share command: the hand-off path other applications use to drop a single
// URL, text, or image into an existing compilation.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/compilations/internal/share"
)

func newShareCmd(a *app) *cobra.Command {
	var (
		url, text, imagePath, label string
	)
	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Share one URL, text, or image into an existing compilation",
		Long: `Share appends exactly one attachment to an existing compilation and moves
it to the front. It never creates a compilation.

Images are named by --label when given, otherwise "pictureN".

Example:
  compilations share <id> --url https://example.com
  compilations share <id> --text "quote of the day"
  compilations share <id> --image ./dog.png --label "golden retriever"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			att := share.Attachment{URL: url, Text: text}
			if imagePath != "" {
				data, err := os.ReadFile(imagePath)
				if err != nil {
					return userError(fmt.Errorf("share: %w", err))
				}
				att.Image = data
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			h := &share.Handler{
				Storage:    s,
				Classifier: labelClassifier(label),
				Timeout:    classifyTimeout(a.config),
				Logger:     a.logger,
			}
			item, err := h.Share(cmd.Context(), args[0], att)
			if err != nil {
				return fmt.Errorf("share: %w", err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), item)
			}
			return printItem(cmd.OutOrStdout(), "Shared", item)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "URL to share")
	cmd.Flags().StringVar(&text, "text", "", "text to share")
	cmd.Flags().StringVar(&imagePath, "image", "", "image file to share")
	cmd.Flags().StringVar(&label, "label", "", "name for a shared image")
	cmd.MarkFlagsMutuallyExclusive("url", "text", "image")
	cmd.MarkFlagsOneRequired("url", "text", "image")
	return cmd
}

// labelClassifier returns a classifier that reports label, or none when
// label is empty.
func labelClassifier(label string) share.Classifier {
	if label == "" {
		return share.NopClassifier{}
	}
	return share.ClassifierFunc(func(context.Context, []byte) (string, bool, error) {
		return label, true, nil
	})
}
