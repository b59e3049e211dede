package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"exegesis/internal/artifact"
	"exegesis/internal/export"
	"exegesis/internal/history"
	"exegesis/internal/logging"
	"exegesis/internal/passage"
	"exegesis/internal/share"
	"exegesis/internal/study"
)

// maxBody bounds request bodies; a detailed study is well under 1 MiB.
const maxBody = 4 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
	Path  string `json:"path,omitempty"`
}

// writeError maps the domain errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	var (
		verr  *passage.ValidationError
		serr  *study.SubmitError
		shape *study.ShapeError
	)
	switch {
	case errors.As(err, &serr):
		// Whatever the cause, a failed generation is the model's fault.
		logging.Get(logging.CategoryServer).Warn("generation failed for %q: %v", serr.Request.Passage, serr.Err)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: serr.Error()})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Hint: passage.FormatHint})
	case errors.Is(err, study.ErrUnknownTranslation),
		errors.Is(err, study.ErrUnknownDepth),
		errors.Is(err, share.ErrNoReference),
		errors.Is(err, export.ErrUnknownFormat):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.As(err, &shape):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: shape.Error(), Path: shape.Path})
	case errors.Is(err, export.ErrNoRenderer):
		writeJSON(w, http.StatusNotImplemented, errorBody{Error: err.Error()})
	default:
		logging.Get(logging.CategoryServer).Error("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// studyRequest is the body of POST /api/studies. Translation and depth are
// optional and accept the same aliases as the CLI.
type studyRequest struct {
	Passage     string `json:"passage"`
	Translation string `json:"translation"`
	Depth       string `json:"depth"`
}

func (b studyRequest) toRequest() (study.Request, error) {
	var (
		t   study.Translation
		d   study.Depth
		err error
	)
	if strings.TrimSpace(b.Translation) != "" {
		if t, err = study.ParseTranslation(b.Translation); err != nil {
			return study.Request{}, err
		}
	}
	if strings.TrimSpace(b.Depth) != "" {
		if d, err = study.ParseDepth(b.Depth); err != nil {
			return study.Request{}, err
		}
	}
	return study.NewRequest(b.Passage, t, d)
}

// createStudy generates a study.
func (s *Server) createStudy(w http.ResponseWriter, r *http.Request) {
	var body studyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	req, err := body.toRequest()
	if err != nil {
		writeError(w, err)
		return
	}
	s.generate(w, r, req)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request, req study.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.opts.RequestTimeout)
	defer cancel()

	doc, err := s.gen.Generate(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// readDocument decodes and shape-checks a study posted back by the client.
func readDocument(w http.ResponseWriter, r *http.Request) (*study.Document, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		return nil, err
	}
	return study.Decode(string(raw))
}

func (s *Server) renderFile(w http.ResponseWriter, r *http.Request) (*study.Document, export.File, bool) {
	f, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return nil, export.File{}, false
	}
	doc, err := readDocument(w, r)
	if err != nil {
		writeError(w, err)
		return nil, export.File{}, false
	}
	file, err := s.exports.Export(r.Context(), f, doc)
	if err != nil {
		writeError(w, err)
		return nil, export.File{}, false
	}
	return doc, file, true
}

// exportStudy renders a posted study and streams it as a download.
func (s *Server) exportStudy(w http.ResponseWriter, r *http.Request) {
	_, file, ok := s.renderFile(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", file.MIME)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

// publishStudy renders a posted study and uploads it to object storage.
func (s *Server) publishStudy(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "publishing is not enabled"})
		return
	}
	doc, file, ok := s.renderFile(w, r)
	if !ok {
		return
	}
	obj, err := s.publisher.Publish(r.Context(), artifact.Key(doc.Meta.Reference, file.Name), file.Data, file.MIME)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, obj)
}

// openShare generates the study a share link points at.
func (s *Server) openShare(w http.ResponseWriter, r *http.Request) {
	link, err := share.Decode(r.URL.RawQuery)
	if err != nil {
		writeError(w, err)
		return
	}
	req, err := link.Request()
	if err != nil {
		writeError(w, err)
		return
	}
	s.generate(w, r, req)
}

// shareLink builds a link from passage/translation/depth query params.
func (s *Server) shareLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := studyRequest{
		Passage:     q.Get("passage"),
		Translation: q.Get("translation"),
		Depth:       q.Get("depth"),
	}.toRequest()
	if err != nil {
		writeError(w, err)
		return
	}
	base := s.opts.ShareBaseURL
	if base == "" {
		base = "/"
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": share.Encode(base, req)})
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []history.Entry{})
		return
	}
	writeJSON(w, http.StatusOK, s.history.Entries())
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	if s.history != nil {
		if err := s.history.Clear(r.Context()); err != nil {
			writeError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
