package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ytget/ytweb/internal/download"
	"github.com/ytget/ytweb/internal/logging"
	"github.com/ytget/ytweb/internal/sizing"
	"github.com/ytget/ytweb/internal/ui"
	"github.com/ytget/ytweb/internal/validation"
)

// maxFormBytes bounds form bodies
const maxFormBytes = 64 << 10

// downloadRequest is the validated form of POST /download
type downloadRequest struct {
	URL      string `validate:"required,mediaurl"`
	Selector string `validate:"required,formatselector"`
}

func (s *Server) newPage(r *http.Request) *ui.Page {
	p := s.deps.Renderer.NewPage(r.FormValue("lang"), r.Header.Get("Accept-Language"))
	p.URL = strings.TrimSpace(r.FormValue("url"))
	return p
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, p *ui.Page) {
	var buf bytes.Buffer
	if err := s.deps.Renderer.Render(&buf, name, p); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("page", name).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError shows page name with an error banner
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, p *ui.Page, msg string, err error) {
	p.Error = msg
	if err != nil {
		p.Error = fmt.Sprintf("%s: %v", msg, err)
	}
	s.render(w, r, status, ui.PageIndex, p)
}

// parseForm reads a bounded form body and returns a page for the request
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) (*ui.Page, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		p := s.deps.Renderer.NewPage("", r.Header.Get("Accept-Language"))
		s.renderError(w, r, http.StatusBadRequest, p, p.T(ui.KeyInvalidURL), err)
		return nil, false
	}
	return s.newPage(r), true
}

// checkURL renders the error banner and returns false when the page URL is unusable
func (s *Server) checkURL(w http.ResponseWriter, r *http.Request, p *ui.Page) bool {
	if p.URL == "" {
		s.renderError(w, r, http.StatusBadRequest, p, p.T(ui.KeyPleaseEnterURL), nil)
		return false
	}
	if err := validation.ValidateMediaURL(p.URL); err != nil {
		s.renderError(w, r, http.StatusBadRequest, p, p.T(ui.KeyInvalidURL), nil)
		return false
	}
	return true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, ui.PageIndex, s.newPage(r))
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseForm(w, r)
	if !ok || !s.checkURL(w, r, p) {
		return
	}
	ctx := r.Context()

	meta, err := s.deps.Extractor.Metadata(ctx, p.URL)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("url", p.URL).Msg("metadata lookup failed")
		s.renderError(w, r, http.StatusBadGateway, p, p.T(ui.KeyErrorFetchFormats), err)
		return
	}

	if meta.IsPlaylist() {
		// formats of playlist members are only listed by the analysis
		p.Inspect = ui.NewInspectView(meta, nil)
		s.render(w, r, http.StatusOK, ui.PageInspect, p)
		return
	}

	encodings, err := s.deps.Extractor.ListEncodings(ctx, p.URL)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("url", p.URL).Msg("format listing failed")
		s.renderError(w, r, http.StatusBadGateway, p, p.T(ui.KeyErrorFetchFormats), err)
		return
	}
	p.Inspect = ui.NewInspectView(meta, encodings)
	s.render(w, r, http.StatusOK, ui.PageInspect, p)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseForm(w, r)
	if !ok || !s.checkURL(w, r, p) {
		return
	}

	result, err := s.deps.Analyzer.AnalyzePlaylist(r.Context(), p.URL)
	if err != nil {
		status := http.StatusInternalServerError
		var metaErr *sizing.MetadataFetchError
		if errors.As(err, &metaErr) {
			status = http.StatusBadGateway
		}
		s.renderError(w, r, status, p, p.T(ui.KeyErrorAnalyze), err)
		return
	}

	p.Analysis = ui.NewAnalysisView(result)
	s.render(w, r, http.StatusOK, ui.PageAnalysis, p)
}

// selectorFromForm takes an explicit selector, else a mode/quality preset,
// else the configured default preset
func (s *Server) selectorFromForm(r *http.Request) (string, error) {
	if sel := strings.TrimSpace(r.FormValue("selector")); sel != "" {
		return sel, nil
	}
	mode, quality := r.FormValue("mode"), r.FormValue("quality")
	if mode == "" {
		mode, quality = s.deps.Preset.ModeQuality()
	}
	return download.PresetSelector(mode, quality)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseForm(w, r)
	if !ok || !s.checkURL(w, r, p) {
		return
	}
	ctx := r.Context()

	selector, err := s.selectorFromForm(r)
	if err == nil {
		err = validation.ValidateStruct(downloadRequest{URL: p.URL, Selector: selector})
	}
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, p, p.T(ui.KeyErrorDownload), err)
		return
	}

	task, err := s.deps.Downloads.Download(ctx, p.URL, selector)
	if err != nil {
		s.renderError(w, r, http.StatusBadGateway, p, p.T(ui.KeyErrorDownload), err)
		return
	}

	delivery, err := s.deps.Downloads.Open(task.ID)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, p, p.T(ui.KeyErrorDownload), err)
		return
	}
	defer func() {
		if err := delivery.Close(); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("task_id", task.ID).Msg("cleanup after delivery failed")
		}
	}()

	w.Header().Set("Content-Type", delivery.ContentType)
	w.Header().Set("Content-Disposition", delivery.ContentDisposition())
	w.Header().Set("Content-Length", strconv.FormatInt(delivery.Size, 10))
	w.WriteHeader(http.StatusOK)
	if n, err := io.Copy(w, delivery); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("bytes", n).Str("task_id", task.ID).Msg("delivery interrupted")
	}
}
