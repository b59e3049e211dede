package export

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"exegesis/internal/study"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// wordBOM makes Word read the file as UTF-8.
const wordBOM = "\ufeff"

var (
	templatesOnce sync.Once
	templates     *template.Template
	templatesErr  error
)

func loadTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		templates, templatesErr = template.New("export").Funcs(template.FuncMap{
			"inc":       func(i int) int { return i + 1 },
			"shortDate": shortDate,
			"longDate":  longDate,
		}).ParseFS(templateFS, "templates/*.tmpl")
	})
	return templates, templatesErr
}

func render(name string, doc *study.Document) ([]byte, error) {
	t, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, doc); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// exportDoc produces Word-compatible HTML served as application/msword.
func exportDoc(_ context.Context, doc *study.Document) ([]byte, error) {
	body, err := render("doc.html.tmpl", doc)
	if err != nil {
		return nil, err
	}
	return append([]byte(wordBOM), body...), nil
}

// PrintHTML is the paginated layout (cover page first) fed to the PDF
// renderer.
func PrintHTML(doc *study.Document) ([]byte, error) {
	return render("print.html.tmpl", doc)
}

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Estudo - {{.Title}}</title>
<style>
body { max-width: 760px; margin: 40px auto; padding: 0 20px; font-family: Georgia, 'Times New Roman', serif; color: #1c1917; line-height: 1.6; }
h1, h2, h3, h4 { font-family: 'Merriweather', Georgia, serif; }
h2 { border-bottom: 1px solid #e7e5e4; padding-bottom: 5px; }
blockquote { border-left: 4px solid #1c1917; margin-left: 0; padding-left: 20px; font-style: italic; }
table { border-collapse: collapse; width: 100%; font-size: 14px; }
th, td { border: 1px solid #d6d3d1; padding: 8px; text-align: left; vertical-align: top; }
th { background: #f5f5f4; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// exportHTML renders the Markdown study as a standalone web page. Raw HTML
// inside model text is dropped by the renderer.
func exportHTML(_ context.Context, doc *study.Document) ([]byte, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(Markdown(doc)), &body); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}
	var out bytes.Buffer
	err := pageTemplate.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{doc.Meta.Reference, template.HTML(body.String())})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
