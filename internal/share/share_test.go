package share

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exegesis/internal/passage"
	"exegesis/internal/study"
)

func TestRoundTrip(t *testing.T) {
	reqs := []study.Request{
		{Passage: "João 3:16", Translation: study.TranslationNVI, Depth: study.DepthDetailed},
		{Passage: "1 Co 13:1-13", Translation: study.TranslationKJV, Depth: study.DepthAcademic},
		{Passage: "Ap. 21:1-4", Translation: study.TranslationARC, Depth: study.DepthSermon},
		{Passage: "Sl 23", Translation: study.TranslationESV, Depth: study.DepthQuick},
	}
	for _, req := range reqs {
		t.Run(req.Passage, func(t *testing.T) {
			link := Encode("https://exegesis.app/", req)
			got, err := Decode(link)
			require.NoError(t, err)
			assert.Equal(t, Link{Passage: req.Passage, Translation: req.Translation, Depth: req.Depth}, got)

			back, err := got.Request()
			require.NoError(t, err)
			assert.Equal(t, req, back)
		})
	}
}

func TestEncode_KeepsExistingQuery(t *testing.T) {
	link := Encode("https://example.com/study?utm=x", study.Request{Passage: "Gn 1"})
	got, err := Decode(link)
	require.NoError(t, err)
	assert.Contains(t, link, "utm=x")
	assert.Equal(t, study.DefaultTranslation, got.Translation)
	assert.Equal(t, study.DefaultDepth, got.Depth)
}

func TestDecode_Defaults(t *testing.T) {
	got, err := Decode("?ref=Mateus%203%3A11")
	require.NoError(t, err)
	assert.Equal(t, Link{Passage: "Mateus 3:11", Translation: study.TranslationNVI, Depth: study.DepthDetailed}, got)
}

func TestDecode_BareQueryAndLowercase(t *testing.T) {
	got, err := Decode("ref=Rm+8:28&trans=acf&depth=academic")
	require.NoError(t, err)
	assert.Equal(t, "Rm 8:28", got.Passage)
	assert.Equal(t, study.TranslationACF, got.Translation)
	assert.Equal(t, study.DepthAcademic, got.Depth)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode("https://exegesis.app/?trans=NVI")
	assert.ErrorIs(t, err, ErrNoReference)

	_, err = Decode("?ref=Gn+1&trans=XYZ")
	assert.ErrorIs(t, err, study.ErrUnknownTranslation)

	_, err = Decode("?ref=Gn+1&depth=deep")
	assert.ErrorIs(t, err, study.ErrUnknownDepth)

	_, err = Decode("?ref=%zz")
	assert.Error(t, err)
}

func TestLink_RequestValidatesPassage(t *testing.T) {
	link, err := Decode("?ref=Mateus")
	require.NoError(t, err)

	_, err = link.Request()
	var verr *passage.ValidationError
	assert.True(t, errors.As(err, &verr))
}
