package export

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"exegesis/internal/logging"
	"exegesis/internal/study"
)

// Renderer prints an HTML page to PDF.
type Renderer interface {
	RenderPDF(ctx context.Context, html []byte) ([]byte, error)
}

// PDFExporter prints PrintHTML through a Renderer.
type PDFExporter struct {
	Renderer Renderer
}

func (e *PDFExporter) Export(ctx context.Context, doc *study.Document) ([]byte, error) {
	if e.Renderer == nil {
		return nil, ErrNoRenderer
	}
	page, err := PrintHTML(doc)
	if err != nil {
		return nil, err
	}
	return e.Renderer.RenderPDF(ctx, page)
}

// A4 in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// ChromeRenderer drives a headless Chrome through rod. Each call launches
// its own browser so concurrent exports never share a page.
type ChromeRenderer struct {
	// Bin is the Chrome/Chromium executable. Empty lets rod find or
	// download one.
	Bin string
	// ControlURL connects to an already running browser instead of
	// launching one.
	ControlURL string
}

func (r *ChromeRenderer) RenderPDF(ctx context.Context, html []byte) ([]byte, error) {
	log := logging.Get(logging.CategoryExport)

	controlURL := r.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(true).Context(ctx)
		if r.Bin != "" {
			l = l.Bin(r.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		defer l.Cleanup()
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.SetDocumentContent(string(html)); err != nil {
		return nil, fmt.Errorf("load study html: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for layout: %w", err)
	}

	width, height, margin := a4Width, a4Height, 0.0
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      &width,
		PaperHeight:     &height,
		MarginTop:       &margin,
		MarginBottom:    &margin,
		MarginLeft:      &margin,
		MarginRight:     &margin,
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	log.Debug("rendered pdf: %d bytes", len(data))
	return data, nil
}
