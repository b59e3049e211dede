package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"exegesis/cmd/exegesis/ui"
	"exegesis/internal/study"
)

var viewWatch bool

// viewCmd opens a study saved with -f json.
var viewCmd = &cobra.Command{
	Use:   "view <study.json>",
	Short: "Browse a saved JSON study in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readStudy(args[0])
		if err != nil {
			return err
		}
		var feeds []ui.Feed
		if viewWatch {
			feeds = append(feeds, studyFeed(args[0]))
		}
		_, err = ui.Run(ui.NewViewer(doc), feeds...)
		return err
	},
}

func init() {
	viewCmd.Flags().BoolVarP(&viewWatch, "watch", "w", false, "Reload when the file changes")
}

func readStudy(path string) (*study.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := study.Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
