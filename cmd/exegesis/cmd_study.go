package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"exegesis/cmd/exegesis/ui"
	"exegesis/internal/artifact"
	"exegesis/internal/export"
	"exegesis/internal/share"
	"exegesis/internal/study"
)

var (
	studyTranslation string
	studyDepth       string
	studyFormats     string
	studyOutDir      string
	studyPublish     bool
	studyView        bool
)

// studyCmd generates a study and writes it in the requested formats.
var studyCmd = &cobra.Command{
	Use:   "study <passage...>",
	Short: "Generate a study for a Bible passage",
	Long: `Generates a structured exegetical study and writes it to disk.

Depths:
  rapido     devotional, short (alias: quick)
  detalhado  Bible school level (alias: detailed, default)
  academico  technical, original languages (alias: academic)
  sermao     pastoral, with an expository sermon (alias: sermon)

Examples:
  exegesis study João 3:16
  exegesis study "1 Jo 1:9" -t ACF -d academico -f all -o estudos/
  exegesis study Rm 8:28 -d sermon -f pptx,pdf --publish
  exegesis study Sl 23 --view`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStudy,
}

// openCmd regenerates the study a share link points at.
var openCmd = &cobra.Command{
	Use:   "open <share-url>",
	Short: "Generate the study encoded in a share link",
	Example: `  exegesis open "https://exegesis.app/?ref=Jo%203%3A16&trans=NVI&depth=detalhado"
  exegesis open "ref=Gn+1&trans=ARC"`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

// shareCmd prints a share link without generating anything.
var shareCmd = &cobra.Command{
	Use:   "share <passage...>",
	Short: "Print a share link for a passage",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShare,
}

var shareBase string

func init() {
	for _, c := range []*cobra.Command{studyCmd, openCmd} {
		c.Flags().StringVarP(&studyFormats, "format", "f", "markdown", "Output formats: markdown, doc, html, pdf, pptx, json or all (comma separated)")
		c.Flags().StringVarP(&studyOutDir, "output", "o", "", "Output directory (default from config)")
		c.Flags().BoolVar(&studyPublish, "publish", false, "Upload the files to the configured object storage")
		c.Flags().BoolVar(&studyView, "view", false, "Open the study in the terminal viewer")
	}
	for _, c := range []*cobra.Command{studyCmd, shareCmd} {
		c.Flags().StringVarP(&studyTranslation, "translation", "t", "", "Translation code (default from config)")
		c.Flags().StringVarP(&studyDepth, "depth", "d", "", "Depth: rapido, detalhado, academico, sermao")
	}
	shareCmd.Flags().StringVar(&shareBase, "base", "", "Base URL of the link (default server.share_base_url)")
}

// requestFromFlags validates the passage and the -t/-d flags, falling back
// to the configured defaults.
func requestFromFlags(args []string) (study.Request, error) {
	t, err := cfg.Translation()
	if err != nil {
		return study.Request{}, err
	}
	if studyTranslation != "" {
		if t, err = study.ParseTranslation(studyTranslation); err != nil {
			return study.Request{}, err
		}
	}
	d, err := cfg.Depth()
	if err != nil {
		return study.Request{}, err
	}
	if studyDepth != "" {
		if d, err = study.ParseDepth(studyDepth); err != nil {
			return study.Request{}, err
		}
	}
	return study.NewRequest(strings.Join(args, " "), t, d)
}

func runStudy(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(args)
	if err != nil {
		return err
	}
	return generateAndWrite(cmd, req)
}

func runOpen(cmd *cobra.Command, args []string) error {
	link, err := share.Decode(args[0])
	if err != nil {
		return err
	}
	req, err := link.Request()
	if err != nil {
		return err
	}
	return generateAndWrite(cmd, req)
}

func runShare(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(args)
	if err != nil {
		return err
	}
	base := shareBase
	if base == "" {
		base = cfg.Server.ShareBaseURL
	}
	fmt.Fprintln(cmd.OutOrStdout(), share.Encode(base, req))
	return nil
}

// generateAndWrite runs one submission, then views, writes and publishes
// the result as the flags ask.
func generateAndWrite(cmd *cobra.Command, req study.Request) error {
	formats, err := export.ParseFormats(studyFormats)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetLLMTimeout())
	defer cancel()

	a, err := newApp(ctx, cfg, appOptions{model: true, publisher: studyPublish})
	if err != nil {
		return err
	}
	defer a.Close()

	if studyPublish && a.publisher == nil {
		return fmt.Errorf("--publish needs artifact.enabled in the config")
	}

	generate := func(ctx context.Context) (*study.Document, error) {
		return a.service.Submit(ctx, req.Passage, req.Translation, req.Depth)
	}

	var doc *study.Document
	if studyView {
		final, err := ui.Run(ui.NewLoader(ctx, req.Passage, generate))
		if err != nil {
			return err
		}
		if final.Err() != nil {
			return final.Err()
		}
		doc = final.Document()
		if doc == nil {
			return nil
		}
		if !cmd.Flags().Changed("format") {
			return nil
		}
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Gerando estudo de %s (%s, %s)...\n", req.Passage, req.Translation, req.Depth.Label())
		if doc, err = generate(ctx); err != nil {
			return err
		}
	}

	files, err := a.exports.ExportAll(ctx, doc, formats)
	if err != nil {
		return err
	}
	return writeOutputs(ctx, cmd.OutOrStdout(), a, doc, files)
}

func writeOutputs(ctx context.Context, out io.Writer, a *app, doc *study.Document, files []export.File) error {
	dir := studyOutDir
	if dir == "" {
		dir = a.cfg.Export.OutputDir
	}
	paths, err := export.WriteFiles(dir, files)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}

	if !studyPublish {
		return nil
	}
	for _, f := range files {
		obj, err := a.publisher.Publish(ctx, artifact.Key(doc.Meta.Reference, f.Name), f.Data, f.MIME)
		if err != nil {
			return err
		}
		if obj.URL != "" {
			fmt.Fprintln(out, obj.URL)
		} else {
			fmt.Fprintln(out, obj.Key)
		}
	}
	return nil
}
