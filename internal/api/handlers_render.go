package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgallion1/wikiplain/internal/plaintext"
	"github.com/dgallion1/wikiplain/internal/wikitree"
)

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	renderer, err := s.rendererFor(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	format := wikitree.FormatForContentType(r.Header.Get("Content-Type"))
	root, err := wikitree.Decode(r.Body, format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("document exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := s.orchestrator.RenderTree(root, renderer)
	writeText(w, res.Text, res.Sections)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	renderer, err := s.rendererFor(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	res, err := s.orchestrator.Convert(up.data, up.filename, up.title, renderer)
	if err != nil {
		s.log.Warn("convert failed", "filename", up.filename, "error", err)
		jsonError(w, "parse: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeText(w, res.Text, res.Sections)
}

// rendererFor builds a renderer from the wrap and enumerate query
// parameters. It returns nil when neither is set.
func (s *Server) rendererFor(r *http.Request) (*plaintext.Renderer, error) {
	q := r.URL.Query()
	wrap, enumerate := q.Get("wrap"), q.Get("enumerate")
	if wrap == "" && enumerate == "" {
		return nil, nil
	}

	cfg := s.cfg.RenderConfig()
	cfg.Logger = s.log
	if wrap != "" {
		n, err := strconv.Atoi(wrap)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid wrap %q: want a non-negative integer", wrap)
		}
		cfg.WrapColumn = plaintext.Unbounded
		if n > 0 {
			cfg.WrapColumn = n
		}
	}
	if enumerate != "" {
		b, err := strconv.ParseBool(enumerate)
		if err != nil {
			return nil, fmt.Errorf("invalid enumerate %q: want a boolean", enumerate)
		}
		cfg.EnumerateSections = b
	}
	return plaintext.New(cfg)
}

func writeText(w http.ResponseWriter, text string, sections int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Wikiplain-Sections", strconv.Itoa(sections))
	w.Write([]byte(text))
}
