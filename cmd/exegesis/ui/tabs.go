package ui

import (
	"fmt"
	"strings"

	"exegesis/internal/study"
)

// Tab is one viewer page rendered from Markdown.
type Tab struct {
	Label    string
	Markdown string
}

// Tabs splits a study into the viewer pages. The sermon tab is always
// present so the tab order does not shift between studies.
func Tabs(doc *study.Document) []Tab {
	return []Tab{
		{"Texto", textTab(doc)},
		{"Contexto", contextTab(doc)},
		{"Léxico", lexicalTab(doc)},
		{"Interpretação", interpretationTab(doc)},
		{"Aplicação", applicationTab(doc)},
		{"Púlpito", sermonTab(doc)},
		{"Slides", slidesTab(doc)},
	}
}

func textTab(doc *study.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Texto Sagrado (%s)\n\n", doc.Meta.Translation)
	quote(&b, doc.Content.TextBase)
	b.WriteString("\n## Resumo Executivo\n\n")
	b.WriteString(doc.Summary.Executive + "\n")
	if len(doc.Summary.PreachingPoints) > 0 {
		b.WriteString("\n## Pontos para Pregação\n\n")
		for i, p := range doc.Summary.PreachingPoints {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p)
		}
	}
	b.WriteString("\n## Introdução & Definição\n\n")
	b.WriteString(doc.Content.IntroDefinition + "\n")
	return b.String()
}

func contextTab(doc *study.Document) string {
	var b strings.Builder
	b.WriteString("## Contexto Literário\n\n" + doc.Content.ContextLiterary + "\n")
	b.WriteString("\n## Contexto Histórico\n\n" + doc.Content.ContextHistorical + "\n")
	if len(doc.Content.Parallels) > 0 {
		b.WriteString("\n## Paralelos e Correlações Bíblicas\n\n")
		for _, p := range doc.Content.Parallels {
			fmt.Fprintf(&b, "### %s\n\n", p.Reference)
			quote(&b, p.Text)
			b.WriteString("\n" + p.Correlation + "\n\n")
		}
	}
	if doc.Content.Intertextuality != "" {
		b.WriteString("\n## Intertextualidade\n\n" + doc.Content.Intertextuality + "\n")
	}
	return b.String()
}

func lexicalTab(doc *study.Document) string {
	var b strings.Builder
	b.WriteString("## Análise Léxica\n\n")
	b.WriteString("_Termos originais no Grego/Hebraico e suas nuances teológicas._\n\n")
	b.WriteString("| Palavra | Original | Morfologia | Significado e Nuances |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, l := range doc.Content.LexicalAnalysis {
		original := l.Lemma
		if l.Transliteration != "" {
			original += " (" + l.Transliteration + ")"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(l.Word), cell(original), cell(l.Morphology), cell(l.Meaning))
	}
	return b.String()
}

func interpretationTab(doc *study.Document) string {
	var b strings.Builder
	b.WriteString("## Linhas Interpretativas\n\n")
	for _, in := range doc.Content.Interpretations {
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", in.Tradition, in.Summary)
	}
	if len(doc.Content.Theologians) > 0 {
		b.WriteString("## Teólogos\n\n")
		for _, th := range doc.Content.Theologians {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", th.Name, th.Era, th.View)
		}
	}
	return b.String()
}

func applicationTab(doc *study.Document) string {
	var b strings.Builder
	b.WriteString("## Implicações Práticas & Doutrinárias\n\n" + doc.Content.Implications + "\n")
	if len(doc.Content.StudyQuestions) > 0 {
		b.WriteString("\n## Perguntas para Reflexão\n\n")
		for i, q := range doc.Content.StudyQuestions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
	}
	if len(doc.Content.Bibliography) > 0 {
		b.WriteString("\n## Bibliografia\n\n")
		for _, item := range doc.Content.Bibliography {
			fmt.Fprintf(&b, "- %s. *%s*", item.Author, item.Title)
			if item.Publisher != "" {
				b.WriteString(". " + item.Publisher)
			}
			if item.Year != "" {
				b.WriteString(", " + item.Year)
			}
			b.WriteString(".")
			if item.Annotation != "" {
				b.WriteString(" " + item.Annotation)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func sermonTab(doc *study.Document) string {
	s := doc.Sermon
	if s == nil {
		return "## Sermão não gerado\n\nGere o estudo com a profundidade `sermao` para receber um esboço de sermão.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n*Sermão Expositivo · %s*\n\n", s.Title, doc.Meta.Reference)
	b.WriteString("**Texto foco:** " + s.TextFocus + "\n\n")
	b.WriteString("## Introdução\n\n" + s.Introduction + "\n\n")
	for i, p := range s.Points {
		fmt.Fprintf(&b, "## %d. %s\n\n%s\n\n", i+1, p.Title, p.Explanation)
		if p.Illustration != "" {
			b.WriteString("> **Ilustração:** " + p.Illustration + "\n\n")
		}
		b.WriteString("**Aplicação:** " + p.Application + "\n\n")
	}
	b.WriteString("## Conclusão\n\n" + s.Conclusion + "\n")
	return b.String()
}

func slidesTab(doc *study.Document) string {
	var b strings.Builder
	for i, sl := range doc.Slides {
		fmt.Fprintf(&b, "## Slide %d: %s\n\n", i+1, sl.Title)
		for _, bullet := range sl.Bullets {
			b.WriteString("- " + bullet + "\n")
		}
		if sl.ImageHint != "" {
			b.WriteString("\n*Sugestão visual: " + sl.ImageHint + "*\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func quote(b *strings.Builder, text string) {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		b.WriteString("> " + line + "\n")
	}
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
