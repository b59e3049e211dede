// Package studytest provides canned study documents for tests.
package studytest

import (
	"exegesis/internal/study"
)

// Request is the request that produced Document.
func Request() study.Request {
	return study.Request{
		Passage:     "João 3:16",
		Translation: study.TranslationNVI,
		Depth:       study.DepthDetailed,
	}
}

// Document returns a fully populated study, sermon included. Every call
// returns a fresh copy.
func Document() *study.Document {
	return &study.Document{
		Meta: study.Meta{
			Reference:   "João 3:16",
			Translation: study.TranslationNVI,
			GeneratedAt: "2026-03-01T12:00:00.000Z",
		},
		Summary: study.Summary{
			Executive: "O amor de Deus se manifesta na entrega do Filho.",
			PreachingPoints: []string{
				"O amor de Deus é universal",
				"A fé é o meio de receber a vida eterna",
			},
		},
		Content: study.Content{
			TextBase:          "Porque Deus tanto amou o mundo que deu o seu Filho Unigênito, para que todo o que nele crer não pereça, mas tenha a vida eterna.",
			IntroDefinition:   "Versículo central do diálogo com Nicodemos.",
			ContextLiterary:   "Parte do discurso de Jesus em João 3:1-21.",
			ContextHistorical: "Jerusalém, durante a Páscoa, diante de um fariseu.",
			Parallels: []study.Parallel{
				{Reference: "1 João 4:9", Text: "Foi assim que Deus manifestou o seu amor entre nós.", Correlation: "Paralelo temático"},
				{Reference: "Romanos 5:8", Text: "Mas Deus demonstra seu amor por nós.", Correlation: "Paralelo temático"},
			},
			LexicalAnalysis: []study.LexicalEntry{
				{Word: "amou", Lemma: "ἀγαπάω", Transliteration: "agapaō", Morphology: "Verbo Aoristo Indicativo Ativo", Meaning: "Amar de forma deliberada; entregar-se"},
				{Word: "Unigênito", Lemma: "μονογενής", Transliteration: "monogenēs", Morphology: "Adjetivo Acusativo Masculino Singular", Meaning: "Único em sua espécie; filho único"},
				{Word: "pereça", Lemma: "ἀπόλλυμι", Transliteration: "apollymi", Morphology: "Verbo Aoristo Subjuntivo Médio", Meaning: "Perecer; ser destruído"},
			},
			Intertextuality: "Eco de Gênesis 22 e do sacrifício de Isaque.",
			Interpretations: []study.Interpretation{
				{Tradition: "Reformada", Summary: "Ênfase na graça soberana."},
				{Tradition: "Armínio-Wesleyana", Summary: "Ênfase no alcance universal da oferta."},
			},
			Theologians: []study.Theologian{
				{Name: "Agostinho", Era: "Patrística", View: "O amor de Deus precede qualquer mérito."},
				{Name: "João Calvino", Era: "Reforma", View: "A fé é dom que recebe o Filho."},
			},
			Implications:   "Confiança no amor de Deus e anúncio do evangelho.",
			StudyQuestions: []string{"O que significa crer nele?", "Como o amor de Deus se manifesta hoje?"},
			Bibliography: []study.BibliographyItem{
				{Author: "D. A. Carson", Title: "O Comentário de João", Publisher: "Shedd", Year: "2007", Annotation: "Exegese cuidadosa do quarto evangelho."},
			},
		},
		Sermon: &study.Sermon{
			Title:        "O Amor que Entrega",
			TextFocus:    "João 3:16",
			Introduction: "Todos buscam ser amados.",
			Points: []study.SermonPoint{
				{Title: "A fonte do amor", Explanation: "Deus é amor (1 João 4:8).", Illustration: "Um pai que espera o filho.", Application: "Descanse nesse amor (Romanos 8:39)."},
				{Title: "A prova do amor", Explanation: "Ele deu o Filho (Romanos 5:8).", Illustration: "Um resgate pago.", Application: "Responda com fé (Efésios 2:8)."},
			},
			Conclusion: "Creia e viva.",
		},
		Slides: []study.Slide{
			{Title: "João 3:16", Bullets: []string{"O amor de Deus", "A entrega do Filho"}, ImageHint: "cruz ao amanhecer"},
			{Title: "Aplicação", Bullets: []string{"Crer", "Anunciar"}},
		},
	}
}

// WithoutSermon returns Document with the sermon removed.
func WithoutSermon() *study.Document {
	d := Document()
	d.Sermon = nil
	return d
}

// JSON is a raw model payload that passes the shape check. Its metadata is
// deliberately wrong so normalization is observable.
const JSON = `{
  "meta": {"reference": "Jo 3:16", "translation": "ARC", "generated_at": "ontem"},
  "summary": {"executive": "O amor de Deus.", "preaching_points": ["Amor", "Fé"]},
  "content": {
    "text_base": "Porque Deus amou o mundo de tal maneira...",
    "intro_definition": "Introdução.",
    "context_literary": "Contexto literário.",
    "context_historical": "Contexto histórico.",
    "parallels": [{"reference": "1 João 4:9", "text": "Nisto se manifestou o amor.", "correlation": "Temático"}],
    "lexical_analysis": [{"word": "amou", "lemma": "ἀγαπάω", "transliteration": "agapaō", "morphology": "Verbo", "meaning": "Amar"}],
    "intertextuality": "Gênesis 22.",
    "interpretations": [{"tradition": "Reformada", "summary": "Graça."}],
    "theologians": [{"name": "Agostinho", "era": "Patrística", "view": "Amor."}],
    "implications": "Crer.",
    "study_questions": ["O que é crer?"],
    "bibliography": [{"author": "Carson", "title": "João", "annotation": "Clássico."}]
  },
  "slides": [{"title": "Amor", "bullets": ["Deus amou"], "image_hint": "cruz"}]
}`
