package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"exegesis/internal/study"
)

var monthsPT = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// shortDate renders the generation date as dd/mm/yyyy. Unparseable
// timestamps are shown verbatim.
func shortDate(doc *study.Document) string {
	t := doc.GeneratedTime()
	if t.IsZero() {
		return doc.Meta.GeneratedAt
	}
	return t.Local().Format("02/01/2006")
}

// longDate renders "1 de março de 2026".
func longDate(doc *study.Document) string {
	t := doc.GeneratedTime()
	if t.IsZero() {
		return doc.Meta.GeneratedAt
	}
	t = t.Local()
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthsPT[t.Month()-time.January], t.Year())
}

// cell keeps table rows on one line and pipes from splitting columns.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}

// Markdown renders doc as a Markdown study.
func Markdown(doc *study.Document) string {
	var b strings.Builder
	c := doc.Content
	w := func(format string, args ...interface{}) { fmt.Fprintf(&b, format, args...) }
	list := func(items []string) {
		for _, it := range items {
			w("- %s\n", it)
		}
	}

	w("# Estudo Exegético: %s\n", doc.Meta.Reference)
	w("**Tradução:** %s\n", doc.Meta.Translation)
	w("**Gerado em:** %s\n\n---\n\n", shortDate(doc))

	w("## Resumo Executivo\n%s\n\n", doc.Summary.Executive)
	w("### Pontos para Pregação\n")
	list(doc.Summary.PreachingPoints)
	w("\n---\n\n")

	w("## Texto Base\n> %s\n\n", c.TextBase)
	w("## Introdução\n%s\n\n", c.IntroDefinition)
	w("## Contexto\n**Literário:** %s\n\n**Histórico:** %s\n\n", c.ContextLiterary, c.ContextHistorical)

	if len(c.Parallels) > 0 {
		w("## Paralelos e Correlações\n")
		for i, p := range c.Parallels {
			if i > 0 {
				w("\n")
			}
			w("### %s (%s)\n%s\n", p.Reference, p.Correlation, p.Text)
		}
		w("\n")
	}

	w("## Análise Léxica\n")
	w("| Palavra | Original | Morfologia | Significado |\n")
	w("|---------|----------|------------|-------------|\n")
	for _, l := range c.LexicalAnalysis {
		w("| %s | %s (%s) | %s | %s |\n", cell(l.Word), cell(l.Lemma), cell(l.Transliteration), cell(l.Morphology), cell(l.Meaning))
	}
	w("\n")
	// Words the table had to escape are repeated exactly as given.
	var verbatim []string
	for _, l := range c.LexicalAnalysis {
		if cell(l.Word) != l.Word {
			verbatim = append(verbatim, l.Word)
		}
	}
	if len(verbatim) > 0 {
		w("**Grafia exata:**\n")
		list(verbatim)
		w("\n")
	}

	if c.Intertextuality != "" {
		w("## Intertextualidade\n%s\n\n", c.Intertextuality)
	}

	w("## Interpretação\n")
	for _, it := range c.Interpretations {
		w("### %s\n%s\n\n", it.Tradition, it.Summary)
	}
	w("### Teólogos e Pensadores\n")
	for _, t := range c.Theologians {
		w("#### %s (%s)\n%s\n\n", t.Name, t.Era, t.View)
	}

	w("## Aplicação\n%s\n\n", c.Implications)

	w("## Perguntas para Estudo\n")
	list(c.StudyQuestions)
	w("\n")

	w("## Bibliografia Comentada\n")
	for _, bib := range c.Bibliography {
		w("### %s. *%s*. %s, %s.\n> %s\n\n", bib.Author, bib.Title, bib.Publisher, bib.Year, bib.Annotation)
	}

	if s := doc.Sermon; s != nil {
		w("---\n# SERMÃO EXPOSITIVO: %s\n\n", s.Title)
		w("**Texto:** %s\n\n", s.TextFocus)
		w("## Introdução\n%s\n\n", s.Introduction)
		w("## Tópicos\n")
		for i, p := range s.Points {
			w("\n### %d. %s\n%s\n\n*Ilustração:* %s\n*Aplicação:* %s\n", i+1, p.Title, p.Explanation, p.Illustration, p.Application)
		}
		w("\n## Conclusão\n%s\n\n", s.Conclusion)
	}

	w("---\n## Esboço de Slides\n")
	for i, s := range doc.Slides {
		w("\n### Slide %d: %s\n", i+1, s.Title)
		list(s.Bullets)
		if s.ImageHint != "" {
			w("*Visual:* %s\n", s.ImageHint)
		}
	}

	return strings.TrimSpace(b.String()) + "\n"
}

func exportMarkdown(_ context.Context, doc *study.Document) ([]byte, error) {
	return []byte(Markdown(doc)), nil
}
