package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exegesis/internal/passage"
)

func TestNewRequest_Defaults(t *testing.T) {
	req, err := NewRequest("  João 3:16 ", "", "")
	require.NoError(t, err)
	assert.Equal(t, "João 3:16", req.Passage)
	assert.Equal(t, TranslationNVI, req.Translation)
	assert.Equal(t, DepthDetailed, req.Depth)
}

func TestNewRequest_RejectsInvalidPassage(t *testing.T) {
	_, err := NewRequest("", TranslationNVI, DepthQuick)
	assert.ErrorIs(t, err, passage.ErrEmpty)

	_, err = NewRequest("Mateus", TranslationNVI, DepthQuick)
	assert.ErrorIs(t, err, passage.ErrBadFormat)
}

func TestNewRequest_RejectsUnknownEnums(t *testing.T) {
	_, err := NewRequest("Gn 1", "XYZ", DepthQuick)
	assert.ErrorIs(t, err, ErrUnknownTranslation)

	_, err = NewRequest("Gn 1", TranslationKJV, "profundo")
	assert.ErrorIs(t, err, ErrUnknownDepth)
}

func TestParseTranslation(t *testing.T) {
	tr, err := ParseTranslation(" esv ")
	require.NoError(t, err)
	assert.Equal(t, TranslationESV, tr)
	assert.Equal(t, "English Standard Version", tr.Name())

	_, err = ParseTranslation("NTLH")
	assert.ErrorIs(t, err, ErrUnknownTranslation)
}

func TestParseDepth(t *testing.T) {
	tests := map[string]Depth{
		"rapido":    DepthQuick,
		"Rápido":    DepthQuick,
		"detailed":  DepthDetailed,
		"ACADEMICO": DepthAcademic,
		"sermão":    DepthSermon,
		"sermon":    DepthSermon,
	}
	for in, want := range tests {
		got, err := ParseDepth(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDepth("deep")
	assert.ErrorIs(t, err, ErrUnknownDepth)
}

func TestEveryCodeHasAName(t *testing.T) {
	for _, tr := range Translations {
		assert.True(t, tr.Valid())
		assert.NotEqual(t, string(tr), tr.Name())
	}
	for _, d := range Depths {
		assert.True(t, d.Valid())
		assert.NotEqual(t, string(d), d.Label())
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := &Document{
		Summary: Summary{PreachingPoints: []string{"a"}},
		Sermon:  &Sermon{Title: "t", Points: []SermonPoint{{Title: "p"}}},
		Slides:  []Slide{{Title: "s", Bullets: []string{"b"}}},
	}
	c := orig.Clone()
	c.Summary.PreachingPoints[0] = "changed"
	c.Sermon.Title = "changed"
	c.Sermon.Points[0].Title = "changed"
	c.Slides[0].Bullets[0] = "changed"

	assert.Equal(t, "a", orig.Summary.PreachingPoints[0])
	assert.Equal(t, "t", orig.Sermon.Title)
	assert.Equal(t, "p", orig.Sermon.Points[0].Title)
	assert.Equal(t, "b", orig.Slides[0].Bullets[0])

	var nilDoc *Document
	assert.Nil(t, nilDoc.Clone())
}
