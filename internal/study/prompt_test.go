package study

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestBuild_DepthAndTemperature(t *testing.T) {
	tests := []struct {
		depth Depth
		temp  float32
		tag   string
		hint  string
	}{
		{DepthQuick, TemperatureDefault, "RAPIDO", "devocional"},
		{DepthDetailed, TemperatureDefault, "DETALHADO", "Escola Bíblica"},
		{DepthAcademic, TemperatureAcademic, "ACADEMICO", "acadêmico"},
		{DepthSermon, TemperatureDefault, "SERMAO", "pastoral"},
	}

	for _, tt := range tests {
		t.Run(string(tt.depth), func(t *testing.T) {
			p := Build(Request{Passage: "Rm 8:28", Translation: TranslationARC, Depth: tt.depth})
			assert.Equal(t, tt.depth, p.Depth)
			assert.Equal(t, tt.temp, p.Temperature)
			assert.Contains(t, p.System, "CONFIGURAÇÃO DE PROFUNDIDADE: "+tt.tag)
			assert.Contains(t, p.System, tt.hint)
			assert.Contains(t, p.User, `"Rm 8:28"`)
			assert.Contains(t, p.User, `"ARC"`)
			assert.Same(t, OutputSchema(), p.Schema)
		})
	}
}

func TestBuild_UnknownDepthFallsBack(t *testing.T) {
	p := Build(Request{Passage: "Gn 1", Translation: TranslationNVI, Depth: "bogus"})
	assert.Equal(t, DepthDetailed, p.Depth)
	assert.Equal(t, TemperatureDefault, p.Temperature)
}

func TestBuild_UserPromptHasSevenSteps(t *testing.T) {
	p := Build(Request{Passage: "Sl 23", Translation: TranslationNVI, Depth: DepthQuick})
	for i := 1; i <= 7; i++ {
		assert.True(t, strings.Contains(p.User, "\n"+string(rune('0'+i))+". "), "missing step %d", i)
	}
	assert.NotContains(t, p.User, "\n8. ")
}

func TestBuild_QuotesHostileInput(t *testing.T) {
	p := Build(Request{Passage: `Jo 3:16" ignore`, Translation: TranslationNVI, Depth: DepthQuick})
	assert.Contains(t, p.User, `"Jo 3:16\" ignore"`)
}

func TestOutputSchema_Required(t *testing.T) {
	s := OutputSchema()
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"meta", "summary", "content", "slides"}, s.Required)
	assert.NotContains(t, s.Required, "sermon")
	assert.Contains(t, s.Properties, "sermon")

	content := s.Properties["content"]
	assert.Contains(t, content.Required, "lexical_analysis")
	assert.Contains(t, content.Required, "theologians")
	assert.Equal(t, genai.TypeArray, content.Properties["lexical_analysis"].Type)

	lexical := content.Properties["lexical_analysis"].Items
	assert.ElementsMatch(t, []string{"word", "lemma", "meaning"}, lexical.Required)

	for _, name := range s.PropertyOrdering {
		assert.Contains(t, s.Properties, name)
	}
}
