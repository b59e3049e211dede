package study

import (
	"sync"

	"google.golang.org/genai"
)

var (
	outputSchemaOnce sync.Once
	outputSchema     *genai.Schema
)

// OutputSchema returns the structured-output contract sent to the model.
// It does not vary with depth. The same descriptor drives Check, so the
// remote contract and the local shape check cannot drift apart.
//
// Callers must not mutate the returned schema.
func OutputSchema() *genai.Schema {
	outputSchemaOnce.Do(func() {
		outputSchema = buildOutputSchema()
	})
	return outputSchema
}

func str(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func strList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: str("")}
}

func object(props map[string]*genai.Schema, ordering []string, required ...string) *genai.Schema {
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		PropertyOrdering: ordering,
		Required:         required,
	}
}

func list(item *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: item}
}

func buildOutputSchema() *genai.Schema {
	meta := object(map[string]*genai.Schema{
		"reference":    str(""),
		"translation":  str(""),
		"generated_at": str(""),
	}, []string{"reference", "translation", "generated_at"},
		"reference", "translation")

	summary := object(map[string]*genai.Schema{
		"executive":        str(""),
		"preaching_points": strList(),
	}, []string{"executive", "preaching_points"},
		"executive", "preaching_points")

	parallel := object(map[string]*genai.Schema{
		"reference":   str(""),
		"text":        str(""),
		"correlation": str("Relationship type: Synoptic, OT Quote, thematic parallel"),
	}, []string{"reference", "text", "correlation"},
		"reference", "text", "correlation")

	lexical := object(map[string]*genai.Schema{
		"word":            str(""),
		"lemma":           str(""),
		"transliteration": str(""),
		"morphology":      str("Detailed morphology: Part of speech, Tense, Voice, Mood, Case (e.g. 'Verbo Aoristo Indicativo Ativo')"),
		"meaning":         str("Definition and at least 2 distinct nuances of meaning or translation options"),
	}, []string{"word", "lemma", "transliteration", "morphology", "meaning"},
		"word", "lemma", "meaning")

	interpretation := object(map[string]*genai.Schema{
		"tradition": str(""),
		"summary":   str(""),
	}, []string{"tradition", "summary"},
		"tradition", "summary")

	theologian := object(map[string]*genai.Schema{
		"name": str(""),
		"era":  str("Historical era, e.g., 'Patrística', 'Reforma'"),
		"view": str("Summary of their specific view on this passage"),
	}, []string{"name", "era", "view"},
		"name", "era", "view")

	bibliography := object(map[string]*genai.Schema{
		"author":     str(""),
		"title":      str(""),
		"publisher":  str(""),
		"year":       str(""),
		"annotation": str("Brief comment on why this source is valuable"),
	}, []string{"author", "title", "publisher", "year", "annotation"},
		"author", "title", "annotation")

	content := object(map[string]*genai.Schema{
		"text_base":          str(""),
		"intro_definition":   str(""),
		"context_literary":   str(""),
		"context_historical": str(""),
		"parallels":          list(parallel),
		"lexical_analysis":   list(lexical),
		"intertextuality":    str(""),
		"interpretations":    list(interpretation),
		"theologians":        list(theologian),
		"implications":       str(""),
		"study_questions":    strList(),
		"bibliography":       list(bibliography),
	}, []string{
		"text_base", "intro_definition", "context_literary", "context_historical",
		"parallels", "lexical_analysis", "intertextuality", "interpretations",
		"theologians", "implications", "study_questions", "bibliography",
	},
		"text_base", "intro_definition", "context_literary", "context_historical",
		"parallels", "lexical_analysis", "interpretations", "implications",
		"theologians", "bibliography")

	sermonPoint := object(map[string]*genai.Schema{
		"title":        str(""),
		"explanation":  str("Explicação exegética do ponto. OBRIGATÓRIO: Incluir referências bíblicas explícitas (ex: 'como diz em Rm 3:23') ao citar outros textos."),
		"illustration": str("Ilustração prática ou metáfora"),
		"application":  str("Aplicação direta para a vida hoje. OBRIGATÓRIO: Cite versículos de apoio com referência completa."),
	}, []string{"title", "explanation", "illustration", "application"},
		"title", "explanation", "illustration", "application")

	sermon := object(map[string]*genai.Schema{
		"title":        str("Um título atraente e bíblico para o sermão"),
		"text_focus":   str("The specific verses used for the sermon (e.g. 'Mateus 3:11a-12')"),
		"introduction": str("Gancho inicial e proposição do sermão"),
		"points":       list(sermonPoint),
		"conclusion":   str("Resumo e apelo final"),
	}, []string{"title", "text_focus", "introduction", "points", "conclusion"},
		"title", "text_focus", "introduction", "points", "conclusion")

	slide := object(map[string]*genai.Schema{
		"title":      str(""),
		"bullets":    strList(),
		"image_hint": str(""),
	}, []string{"title", "bullets", "image_hint"},
		"title", "bullets")

	return object(map[string]*genai.Schema{
		"meta":    meta,
		"summary": summary,
		"content": content,
		"sermon":  sermon,
		"slides":  list(slide),
	}, []string{"meta", "summary", "content", "sermon", "slides"},
		"meta", "summary", "content", "slides")
}
