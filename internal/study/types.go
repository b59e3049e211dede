// Package study holds the study data model and the pure parts of the
// generation pipeline: request construction, the output-shape descriptor,
// payload shape checking and metadata normalization.
package study

import (
	"errors"
	"fmt"
	"strings"

	"exegesis/internal/passage"
)

// =============================================================================
// ENUMERATIONS
// =============================================================================

// Translation is a Bible translation code.
type Translation string

const (
	TranslationNVI Translation = "NVI"
	TranslationARC Translation = "ARC"
	TranslationACF Translation = "ACF"
	TranslationKJA Translation = "KJA"
	TranslationNVT Translation = "NVT"
	TranslationKJV Translation = "KJV"
	TranslationNIV Translation = "NIV"
	TranslationESV Translation = "ESV"
)

// DefaultTranslation is used when a request or share link omits one.
const DefaultTranslation = TranslationNVI

// Translations lists every supported code in display order.
var Translations = []Translation{
	TranslationNVI, TranslationNVT, TranslationKJA, TranslationARC,
	TranslationACF, TranslationNIV, TranslationESV, TranslationKJV,
}

var translationNames = map[Translation]string{
	TranslationNVI: "Nova Versão Internacional",
	TranslationNVT: "Nova Versão Transformadora",
	TranslationKJA: "King James Atualizada",
	TranslationARC: "Almeida Revista e Corrigida",
	TranslationACF: "Almeida Corrigida Fiel",
	TranslationNIV: "New International Version",
	TranslationESV: "English Standard Version",
	TranslationKJV: "King James Version",
}

// Name returns the full translation name.
func (t Translation) Name() string {
	if n, ok := translationNames[t]; ok {
		return n
	}
	return string(t)
}

// Valid reports whether t is a supported code.
func (t Translation) Valid() bool {
	_, ok := translationNames[t]
	return ok
}

// ParseTranslation accepts a code in any letter case.
func ParseTranslation(s string) (Translation, error) {
	t := Translation(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTranslation, s)
	}
	return t, nil
}

// Depth is a content-generation tier.
type Depth string

const (
	DepthQuick    Depth = "rapido"
	DepthDetailed Depth = "detalhado"
	DepthAcademic Depth = "academico"
	DepthSermon   Depth = "sermao"
)

// DefaultDepth is used when a request or share link omits one.
const DefaultDepth = DepthDetailed

// Depths lists every tier in display order.
var Depths = []Depth{DepthQuick, DepthDetailed, DepthAcademic, DepthSermon}

var depthAliases = map[string]Depth{
	"rapido":    DepthQuick,
	"rápido":    DepthQuick,
	"quick":     DepthQuick,
	"detalhado": DepthDetailed,
	"detailed":  DepthDetailed,
	"academico": DepthAcademic,
	"acadêmico": DepthAcademic,
	"academic":  DepthAcademic,
	"sermao":    DepthSermon,
	"sermão":    DepthSermon,
	"sermon":    DepthSermon,
}

var depthLabels = map[Depth]string{
	DepthQuick:    "Rápido (Devocional & Breve)",
	DepthDetailed: "Detalhado (Estudo & Grupo)",
	DepthAcademic: "Acadêmico (Exegese & Grego)",
	DepthSermon:   "Sermão Expositivo (Pregação Pronta)",
}

// Label returns the human-readable tier name.
func (d Depth) Label() string {
	if l, ok := depthLabels[d]; ok {
		return l
	}
	return string(d)
}

// Valid reports whether d is a known tier.
func (d Depth) Valid() bool {
	_, ok := depthLabels[d]
	return ok
}

// ParseDepth accepts canonical codes and English aliases.
func ParseDepth(s string) (Depth, error) {
	if d, ok := depthAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDepth, s)
}

var (
	ErrUnknownTranslation = errors.New("unknown translation")
	ErrUnknownDepth       = errors.New("unknown depth")
)

// =============================================================================
// REQUEST
// =============================================================================

// Request is one study submission. Build it with NewRequest so the passage
// has been validated.
type Request struct {
	Passage     string      `json:"passage"`
	Translation Translation `json:"translation"`
	Depth       Depth       `json:"depth"`
}

// NewRequest validates the passage and enumerations. Empty translation or
// depth fall back to the defaults.
func NewRequest(input string, translation Translation, depth Depth) (Request, error) {
	p, err := passage.Validate(input)
	if err != nil {
		return Request{}, err
	}
	if translation == "" {
		translation = DefaultTranslation
	}
	if !translation.Valid() {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownTranslation, translation)
	}
	if depth == "" {
		depth = DefaultDepth
	}
	if !depth.Valid() {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownDepth, depth)
	}
	return Request{Passage: p.Text, Translation: translation, Depth: depth}, nil
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is a generated study.
type Document struct {
	Meta    Meta    `json:"meta"`
	Summary Summary `json:"summary"`
	Content Content `json:"content"`
	Sermon  *Sermon `json:"sermon,omitempty"`
	Slides  []Slide `json:"slides"`
}

// Meta is overwritten by the client after every remote call.
type Meta struct {
	Reference   string      `json:"reference"`
	Translation Translation `json:"translation"`
	GeneratedAt string      `json:"generated_at"`
}

type Summary struct {
	Executive       string   `json:"executive"`
	PreachingPoints []string `json:"preaching_points"`
}

type Content struct {
	TextBase          string             `json:"text_base"`
	IntroDefinition   string             `json:"intro_definition"`
	ContextLiterary   string             `json:"context_literary"`
	ContextHistorical string             `json:"context_historical"`
	Parallels         []Parallel         `json:"parallels"`
	LexicalAnalysis   []LexicalEntry     `json:"lexical_analysis"`
	Intertextuality   string             `json:"intertextuality"`
	Interpretations   []Interpretation   `json:"interpretations"`
	Theologians       []Theologian       `json:"theologians"`
	Implications      string             `json:"implications"`
	StudyQuestions    []string           `json:"study_questions"`
	Bibliography      []BibliographyItem `json:"bibliography"`
}

// Parallel is a cross-reference correlated with the passage.
type Parallel struct {
	Reference   string `json:"reference"`
	Text        string `json:"text"`
	Correlation string `json:"correlation"`
}

type LexicalEntry struct {
	Word            string `json:"word"`
	Lemma           string `json:"lemma"`
	Transliteration string `json:"transliteration"`
	Morphology      string `json:"morphology"`
	Meaning         string `json:"meaning"`
}

type Interpretation struct {
	Tradition string `json:"tradition"`
	Summary   string `json:"summary"`
}

type Theologian struct {
	Name string `json:"name"`
	Era  string `json:"era"`
	View string `json:"view"`
}

type BibliographyItem struct {
	Author     string `json:"author"`
	Title      string `json:"title"`
	Publisher  string `json:"publisher,omitempty"`
	Year       string `json:"year,omitempty"`
	Annotation string `json:"annotation"`
}

type Sermon struct {
	Title        string        `json:"title"`
	TextFocus    string        `json:"text_focus"`
	Introduction string        `json:"introduction"`
	Points       []SermonPoint `json:"points"`
	Conclusion   string        `json:"conclusion"`
}

type SermonPoint struct {
	Title        string `json:"title"`
	Explanation  string `json:"explanation"`
	Illustration string `json:"illustration"`
	Application  string `json:"application"`
}

type Slide struct {
	Title     string   `json:"title"`
	Bullets   []string `json:"bullets"`
	ImageHint string   `json:"image_hint"`
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	c.Summary.PreachingPoints = cloneSlice(d.Summary.PreachingPoints)
	c.Content.Parallels = cloneSlice(d.Content.Parallels)
	c.Content.LexicalAnalysis = cloneSlice(d.Content.LexicalAnalysis)
	c.Content.Interpretations = cloneSlice(d.Content.Interpretations)
	c.Content.Theologians = cloneSlice(d.Content.Theologians)
	c.Content.StudyQuestions = cloneSlice(d.Content.StudyQuestions)
	c.Content.Bibliography = cloneSlice(d.Content.Bibliography)
	if d.Sermon != nil {
		s := *d.Sermon
		s.Points = cloneSlice(d.Sermon.Points)
		c.Sermon = &s
	}
	if d.Slides != nil {
		c.Slides = make([]Slide, len(d.Slides))
		for i, sl := range d.Slides {
			sl.Bullets = cloneSlice(sl.Bullets)
			c.Slides[i] = sl
		}
	}
	return &c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
