// Package export renders a study document into downloadable files:
// Markdown, a Word-compatible document, a standalone web page, PDF, a
// slide deck and raw JSON. Every exporter is a pure function of the
// document; only PDF reaches outside the process, through a Renderer.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"exegesis/internal/logging"
	"exegesis/internal/study"
)

// Format names an export target.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatDoc      Format = "doc"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatPPTX     Format = "pptx"
	FormatJSON     Format = "json"
)

// Formats lists every format in menu order.
var Formats = []Format{FormatMarkdown, FormatDoc, FormatHTML, FormatPDF, FormatPPTX, FormatJSON}

type formatInfo struct {
	ext  string
	mime string
}

var formatInfos = map[Format]formatInfo{
	FormatMarkdown: {"md", "text/markdown; charset=utf-8"},
	FormatDoc:      {"doc", "application/msword"},
	FormatHTML:     {"html", "text/html; charset=utf-8"},
	FormatPDF:      {"pdf", "application/pdf"},
	FormatPPTX:     {"pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
	FormatJSON:     {"json", "application/json"},
}

var formatAliases = map[string]Format{
	"md":   FormatMarkdown,
	"word": FormatDoc,
	"docx": FormatDoc,
	"htm":  FormatHTML,
	"ppt":  FormatPPTX,
}

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoRenderer    = errors.New("pdf export needs a renderer")
)

// Ext returns the file extension without the dot.
func (f Format) Ext() string { return formatInfos[f].ext }

// MIME returns the content type served for f.
func (f Format) MIME() string { return formatInfos[f].mime }

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, ok := formatAliases[s]; ok {
		return f, nil
	}
	if _, ok := formatInfos[Format(s)]; ok {
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ParseFormats reads a comma-separated list. "all" expands to Formats.
func ParseFormats(s string) ([]Format, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return append([]Format(nil), Formats...), nil
	}
	var out []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrUnknownFormat)
	}
	return out, nil
}

// FileName is "Estudo - <reference>.<ext>". Path separators in the
// reference are replaced so the name stays a single path element.
func FileName(doc *study.Document, f Format) string {
	ref := strings.NewReplacer("/", "-", "\\", "-").Replace(doc.Meta.Reference)
	return fmt.Sprintf("Estudo - %s.%s", ref, f.Ext())
}

// Exporter turns a document into file contents.
type Exporter interface {
	Export(ctx context.Context, doc *study.Document) ([]byte, error)
}

// ExporterFunc adapts a function to Exporter.
type ExporterFunc func(ctx context.Context, doc *study.Document) ([]byte, error)

func (f ExporterFunc) Export(ctx context.Context, doc *study.Document) ([]byte, error) {
	return f(ctx, doc)
}

// File is one rendered export.
type File struct {
	Format Format
	Name   string
	MIME   string
	Data   []byte
}

// Registry maps formats to exporters.
type Registry struct {
	exporters map[Format]Exporter
}

// NewRegistry registers every built-in exporter. A nil renderer leaves PDF
// export failing with ErrNoRenderer.
func NewRegistry(renderer Renderer) *Registry {
	r := &Registry{exporters: make(map[Format]Exporter)}
	r.Register(FormatMarkdown, ExporterFunc(exportMarkdown))
	r.Register(FormatDoc, ExporterFunc(exportDoc))
	r.Register(FormatHTML, ExporterFunc(exportHTML))
	r.Register(FormatPDF, &PDFExporter{Renderer: renderer})
	r.Register(FormatPPTX, ExporterFunc(exportPPTX))
	r.Register(FormatJSON, ExporterFunc(exportJSON))
	return r
}

// Register adds or replaces the exporter for f.
func (r *Registry) Register(f Format, e Exporter) {
	r.exporters[f] = e
}

// Export renders doc in one format.
func (r *Registry) Export(ctx context.Context, f Format, doc *study.Document) (File, error) {
	e, ok := r.exporters[f]
	if !ok {
		return File{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if doc == nil {
		return File{}, errors.New("no study to export")
	}

	timer := logging.StartTimer(logging.CategoryExport, "export "+string(f))
	data, err := e.Export(ctx, doc)
	timer.StopWithThreshold(5 * time.Second)
	if err != nil {
		return File{}, fmt.Errorf("%s export failed: %w", f, err)
	}
	return File{Format: f, Name: FileName(doc, f), MIME: f.MIME(), Data: data}, nil
}

// ExportAll renders doc in every listed format concurrently. Files come
// back in the order of formats. The first failure cancels the rest.
func (r *Registry) ExportAll(ctx context.Context, doc *study.Document, formats []Format) ([]File, error) {
	files := make([]File, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		i, f := i, f
		g.Go(func() error {
			file, err := r.Export(gctx, f, doc)
			if err != nil {
				return err
			}
			files[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// WriteFiles writes files into dir and returns their paths.
func WriteFiles(dir string, files []File) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := filepath.Join(dir, f.Name)
		if err := os.WriteFile(p, f.Data, 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", p, err)
		}
		logging.Export("wrote %s (%d bytes)", p, len(f.Data))
		paths = append(paths, p)
	}
	return paths, nil
}

func exportJSON(_ context.Context, doc *study.Document) ([]byte, error) {
	return study.Encode(doc)
}
