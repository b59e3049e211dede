// Package share encodes a study request as a link and reads it back.
//
// Links carry three query parameters: ref (the passage), trans and depth.
// Opening a link goes through the same validation and generation path as a
// direct submission.
package share

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"exegesis/internal/logging"
	"exegesis/internal/study"
)

// Query parameter names.
const (
	ParamReference   = "ref"
	ParamTranslation = "trans"
	ParamDepth       = "depth"
)

// ErrNoReference means the link has no ref parameter.
var ErrNoReference = errors.New("share link has no passage reference")

// Link is a decoded share link. Passage is raw user text and still needs
// validation.
type Link struct {
	Passage     string
	Translation study.Translation
	Depth       study.Depth
}

// Request validates the link the same way a typed submission is validated.
func (l Link) Request() (study.Request, error) {
	return study.NewRequest(l.Passage, l.Translation, l.Depth)
}

// Encode returns base with ref, trans and depth set. Existing query
// parameters on base are kept; a base that fails to parse is used as a
// plain prefix.
func Encode(base string, req study.Request) string {
	q := url.Values{}
	q.Set(ParamReference, req.Passage)
	q.Set(ParamTranslation, string(orDefaultTranslation(req.Translation)))
	q.Set(ParamDepth, string(orDefaultDepth(req.Depth)))

	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + q.Encode()
	}
	existing := u.Query()
	for k, vs := range q {
		existing[k] = vs
	}
	u.RawQuery = existing.Encode()
	return u.String()
}

// Decode reads a share link. raw may be a full URL, a bare query string
// ("ref=...&trans=...") or one with a leading "?". Missing trans or depth
// fall back to the defaults; unknown values are errors.
func Decode(raw string) (Link, error) {
	q, err := parseQuery(strings.TrimSpace(raw))
	if err != nil {
		return Link{}, fmt.Errorf("invalid share link: %w", err)
	}

	ref := strings.TrimSpace(q.Get(ParamReference))
	if ref == "" {
		return Link{}, ErrNoReference
	}

	link := Link{Passage: ref, Translation: study.DefaultTranslation, Depth: study.DefaultDepth}
	if t := q.Get(ParamTranslation); t != "" {
		if link.Translation, err = study.ParseTranslation(t); err != nil {
			return Link{}, err
		}
	}
	if d := q.Get(ParamDepth); d != "" {
		if link.Depth, err = study.ParseDepth(d); err != nil {
			return Link{}, err
		}
	}

	logging.Get(logging.CategoryShare).Debug("decoded share link: ref=%q trans=%s depth=%s",
		link.Passage, link.Translation, link.Depth)
	return link, nil
}

func parseQuery(raw string) (url.Values, error) {
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, err
		}
		return u.Query(), nil
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	return url.ParseQuery(raw)
}

func orDefaultTranslation(t study.Translation) study.Translation {
	if t == "" {
		return study.DefaultTranslation
	}
	return t
}

func orDefaultDepth(d study.Depth) study.Depth {
	if d == "" {
		return study.DefaultDepth
	}
	return d
}
