package study_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exegesis/internal/study"
	"exegesis/internal/study/studytest"
)

func TestDecode_ValidPayload(t *testing.T) {
	doc, err := study.Decode(studytest.JSON)
	require.NoError(t, err)
	assert.Equal(t, "Jo 3:16", doc.Meta.Reference)
	assert.Nil(t, doc.Sermon)
	require.Len(t, doc.Content.LexicalAnalysis, 1)
	assert.Equal(t, "ἀγαπάω", doc.Content.LexicalAnalysis[0].Lemma)
	assert.Equal(t, []string{"Deus amou"}, doc.Slides[0].Bullets)
}

func TestDecode_FixtureRoundTrip(t *testing.T) {
	raw, err := study.Encode(studytest.Document())
	require.NoError(t, err)

	doc, err := study.Decode(string(raw))
	require.NoError(t, err)
	if diff := cmp.Diff(studytest.Document(), doc); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_ShapeErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(m map[string]interface{})
		wantPath string
	}{
		{
			name: "missing lexical analysis",
			mutate: func(m map[string]interface{}) {
				delete(m["content"].(map[string]interface{}), "lexical_analysis")
			},
			wantPath: "content.lexical_analysis",
		},
		{
			name:     "missing slides",
			mutate:   func(m map[string]interface{}) { delete(m, "slides") },
			wantPath: "slides",
		},
		{
			name:     "null summary",
			mutate:   func(m map[string]interface{}) { m["summary"] = nil },
			wantPath: "summary",
		},
		{
			name: "slides not a list",
			mutate: func(m map[string]interface{}) {
				m["slides"] = "slide"
			},
			wantPath: "slides",
		},
		{
			name: "slide missing bullets",
			mutate: func(m map[string]interface{}) {
				m["slides"] = []interface{}{map[string]interface{}{"title": "x"}}
			},
			wantPath: "slides[0].bullets",
		},
		{
			name: "number where string expected",
			mutate: func(m map[string]interface{}) {
				m["summary"].(map[string]interface{})["executive"] = 42
			},
			wantPath: "summary.executive",
		},
		{
			name: "incomplete sermon",
			mutate: func(m map[string]interface{}) {
				m["sermon"] = map[string]interface{}{"title": "t"}
			},
			wantPath: "sermon.text_focus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(studytest.JSON), &m))
			tt.mutate(m)
			raw, err := json.Marshal(m)
			require.NoError(t, err)

			_, err = study.Decode(string(raw))
			var shape *study.ShapeError
			require.True(t, errors.As(err, &shape), "got %v", err)
			assert.Equal(t, tt.wantPath, shape.Path)
		})
	}
}

func TestDecode_RejectsMalformedJSON(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"meta": `, `[]`, studytest.JSON + ` {}`} {
		_, err := study.Decode(raw)
		var shape *study.ShapeError
		assert.True(t, errors.As(err, &shape), "input %q", raw)
	}
}

func TestDecode_IgnoresUnknownProperties(t *testing.T) {
	raw := strings.Replace(studytest.JSON, `"slides":`, `"extra": {"anything": 1}, "slides":`, 1)
	_, err := study.Decode(raw)
	assert.NoError(t, err)
}

func TestNormalize_OverwritesMetadata(t *testing.T) {
	raw, err := study.Decode(studytest.JSON)
	require.NoError(t, err)
	req := study.Request{Passage: "João 3:16", Translation: study.TranslationKJV, Depth: study.DepthQuick}
	now := time.Date(2026, 3, 1, 9, 30, 15, 123_000_000, time.FixedZone("BRT", -3*3600))

	doc := study.Normalize(raw, req, now)
	assert.Equal(t, "João 3:16", doc.Meta.Reference)
	assert.Equal(t, study.TranslationKJV, doc.Meta.Translation)
	assert.Equal(t, "2026-03-01T12:30:15.123Z", doc.Meta.GeneratedAt)
	assert.True(t, now.Equal(doc.GeneratedTime()))

	// input untouched
	assert.Equal(t, "Jo 3:16", raw.Meta.Reference)
	assert.Equal(t, study.Translation("ARC"), raw.Meta.Translation)

	// everything outside meta carried over
	want := raw.Clone()
	want.Meta = doc.Meta
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("normalize changed content (-want +got):\n%s", diff)
	}
}

func TestNormalize_IsIdempotentApartFromTimestamp(t *testing.T) {
	req := studytest.Request()
	first := study.Normalize(studytest.Document(), req, time.Unix(100, 0))
	second := study.Normalize(first, req, time.Unix(200, 0))

	assert.NotEqual(t, first.Meta.GeneratedAt, second.Meta.GeneratedAt)
	second.Meta.GeneratedAt = first.Meta.GeneratedAt
	assert.Empty(t, cmp.Diff(first, second))
}

func TestGeneratedTime_Malformed(t *testing.T) {
	doc := &study.Document{Meta: study.Meta{GeneratedAt: "ontem"}}
	assert.True(t, doc.GeneratedTime().IsZero())
}
