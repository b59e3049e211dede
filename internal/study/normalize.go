package study

import "time"

// TimestampLayout is ISO-8601 with millisecond precision, always in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Normalize returns a copy of raw whose metadata reflects the request the
// user actually made: reference, translation and generation time are
// overwritten no matter what the model echoed. Nothing else is checked.
func Normalize(raw *Document, req Request, now time.Time) *Document {
	doc := raw.Clone()
	if doc == nil {
		doc = &Document{}
	}
	doc.Meta.GeneratedAt = now.UTC().Format(TimestampLayout)
	doc.Meta.Translation = req.Translation
	doc.Meta.Reference = req.Passage
	return doc
}

// Normalizer applies Normalize with an injectable clock.
type Normalizer struct {
	Now func() time.Time
}

// Normalize stamps raw with the current time from n.Now (time.Now if nil).
func (n Normalizer) Normalize(raw *Document, req Request) *Document {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	return Normalize(raw, req, now())
}

// GeneratedTime parses Meta.GeneratedAt. A zero time is returned when the
// field is missing or malformed.
func (d *Document) GeneratedTime() time.Time {
	if d == nil || d.Meta.GeneratedAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, d.Meta.GeneratedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
