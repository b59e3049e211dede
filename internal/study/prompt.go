package study

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Sampling temperatures passed through to the model.
const (
	TemperatureDefault  float32 = 0.7
	TemperatureAcademic float32 = 0.3
)

// Prompt is everything the remote call needs for one study.
type Prompt struct {
	System      string
	User        string
	Schema      *genai.Schema
	Temperature float32
	Depth       Depth
}

// instructionBundle fixes the tone and richness of one depth tier.
type instructionBundle struct {
	tone     string
	lexical  string
	theology string
	guidance string
	sermon   string
}

var bundles = map[Depth]instructionBundle{
	DepthQuick: {
		tone:     "Tom devocional, inspirador, prático e conciso. Linguagem simples e direta.",
		lexical:  "Selecione 3 a 5 palavras-chave essenciais. Inclua morfologia básica e pelo menos 2 nuances de significado para cada uma.",
		theology: "Apresente 3 ou 4 visões principais focadas no consenso cristão geral (ex: Histórica, Evangélica, Aplicação Prática). Evite controvérsias excessivas.",
		guidance: "Priorize a brevidade. O objetivo é leitura rápida e edificação.",
		sermon:   "Gere um esboço de sermão DEVOCIONAL curto. Defina o foco textual exato. Use referências bíblicas claras para apoiar cada aplicação.",
	},
	DepthDetailed: {
		tone:     "Tom educacional, didático e equilibrado. Linguagem acessível mas robusta.",
		lexical:  "Selecione 5 a 7 palavras importantes. Inclua morfologia detalhada (classe, tempo, voz, modo) e explique pelo menos 2 nuances de significado para cada termo.",
		theology: "Apresente uma ampla gama de linhas interpretativas (mínimo 5 a 7), indo além do básico. Inclua: Tradição Católica, Reformada (Calvinista), Luterana, Armínio-Wesleyana, Pentecostal/Carismática e Contemporânea. Destaque as nuances entre elas.",
		guidance: "Equilíbrio entre profundidade e clareza. Ideal para preparar uma aula de Escola Bíblica.",
		sermon:   "Gere um esboço de sermão EXPOSITIVO equilibrado. Cada ponto de aplicação DEVE conter citações bíblicas de apoio com referências (ex: Jo 1:1).",
	},
	DepthAcademic: {
		tone:     "Tom estritamente acadêmico, crítico e exegético. Linguagem formal, técnica.",
		lexical:  "Análise profunda de 5 a 7 palavras. É OBRIGATÓRIO incluir morfologia completa (classe, tempo, voz, modo, caso) e explorar pelo menos 2 nuances distintas de tradução/significado.",
		theology: "Análise exaustiva das linhas interpretativas (mínimo 6). Inclua necessariamente: 1. Exegese Patrística/Medieval; 2. Reforma Magisterial (Calvino/Lutero); 3. Ortodoxia Oriental; 4. Perspectiva Moderna/Crítica Histórica; 5. Visão Pentecostal/Carismática; 6. Perspectiva Judaica (se AT) ou Anabatista. Confronte os argumentos.",
		guidance: "Priorize a profundidade e a precisão técnica. A seção de interpretação deve confrontar diferentes escolas de pensamento e incluir vozes divergentes.",
		sermon:   "Gere um esboço de sermão EXPOSITIVO SÓLIDO e denso. Cite abundantemente outros textos bíblicos com referência completa (Livro Cap:Verso) para justificar a exegese e a aplicação.",
	},
	DepthSermon: {
		tone:     "Tom pastoral, proclamativo, persuasivo e eloquente. Focado na comunicação oral e aplicação.",
		lexical:  "Selecione 3 a 5 palavras-chave que trazem riqueza para a pregação. Explique-as de forma que possa ser usada no púlpito.",
		theology: "Apresente uma variedade de visões (5 a 6) que enriqueçam a pregação, incluindo: Reformada, Wesleyana, Pentecostal, e citações de pregadores clássicos (Spurgeon, Lloyd-Jones). Foque na aplicação homilética.",
		guidance: "O foco total é gerar um sermão bíblico completo e estruturado para o pregador. A exegese deve servir à homilética.",
		sermon:   "PRIORIDADE MÁXIMA: Gere um SERMÃO EXPOSITIVO COMPLETO. Estruture com Introdução, Divisões Claras (Tópicos), Ilustrações e Conclusão. Use OBRIGATORIAMENTE referências bíblicas (ex: Rm 3:23) na explicação e aplicação de CADA ponto.",
	},
}

// bundleFor falls back to the detailed tier for unknown depths.
func bundleFor(d Depth) instructionBundle {
	if b, ok := bundles[d]; ok {
		return b
	}
	return bundles[DepthDetailed]
}

// TemperatureFor returns the sampling temperature hint for a tier.
func TemperatureFor(d Depth) float32 {
	if d == DepthAcademic {
		return TemperatureAcademic
	}
	return TemperatureDefault
}

// Build turns a request into instructions plus the output contract.
func Build(req Request) Prompt {
	depth := req.Depth
	if !depth.Valid() {
		depth = DefaultDepth
	}
	b := bundleFor(depth)

	var sys strings.Builder
	sys.WriteString("Você é um especialista em exegese bíblica e homilética.\n")
	sys.WriteString("Sua tarefa é gerar um estudo bíblico estruturado em JSON.\n\n")
	fmt.Fprintf(&sys, "CONFIGURAÇÃO DE PROFUNDIDADE: %s\n\n", strings.ToUpper(string(depth)))
	sys.WriteString("DIRETRIZES DE ESTILO:\n")
	fmt.Fprintf(&sys, "- Tom: %s\n", b.tone)
	fmt.Fprintf(&sys, "- Instrução Geral: %s\n", b.guidance)

	var user strings.Builder
	fmt.Fprintf(&user, "Gere um estudo para a passagem: %q\n", req.Passage)
	fmt.Fprintf(&user, "Tradução: %q\n\n", string(req.Translation))
	user.WriteString("Siga estritamente estas instruções para o conteúdo:\n\n")
	steps := []string{
		"ANÁLISE LÉXICA: " + b.lexical,
		"TEOLOGIA E INTÉRPRETES: " + b.theology,
		fmt.Sprintf("TEXTO BASE: Retorne o texto completo na tradução %s.", req.Translation),
		"PARALELOS E CORRELAÇÕES: Busque textos paralelos em outros livros (ex: se for um Evangelho, busque os Sinóticos; se for AT, onde é citado no NT). Liste pelo menos 3 correlações.",
		"ESTRUTURA: Preencha todos os campos do JSON Schema fornecido.",
		fmt.Sprintf("SLIDES: Gere um esboço de apresentação compatível com o nível %s.", depth),
		"SERMÃO: " + b.sermon + "\n" +
			"   - Preencha o campo 'text_focus' indicando exatamente quais versículos são o foco da pregação.\n" +
			"   - IMPORTANTE: Em cada ponto do sermão (especialmente na Aplicação), você DEVE citar versículos bíblicos de apoio. " +
			"Sempre que fizer uma citação ou alusão bíblica, coloque a referência completa ao lado, ex: \"como Paulo diz (Romanos 3:23)\".",
	}
	for i, step := range steps {
		fmt.Fprintf(&user, "%d. %s\n", i+1, step)
	}

	return Prompt{
		System:      sys.String(),
		User:        user.String(),
		Schema:      OutputSchema(),
		Temperature: TemperatureFor(depth),
		Depth:       depth,
	}
}
