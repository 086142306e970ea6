// Package server exposes the asset pipeline over HTTP: the assembled
// sprite, processed CSS/JS, and the middleware that decorates host pages
// with critical CSS and font preload hints.
package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"assetforge/internal/cache"
	"assetforge/internal/config"
	"assetforge/internal/critical"
	"assetforge/internal/fingerprint"
	"assetforge/internal/logging"
	"assetforge/internal/pipeline"
	"assetforge/internal/preload"
	"assetforge/internal/sprite"
)

// SiteResolver extracts the requesting site identifier from a request.
// Returning "" means no site context is known for this request.
type SiteResolver func(*http.Request) string

// HeaderSiteResolver resolves the site from the X-Site header, falling
// back to the "site" query parameter.
func HeaderSiteResolver(r *http.Request) string {
	if site := r.Header.Get("X-Site"); site != "" {
		return site
	}
	return r.URL.Query().Get("site")
}

// Server wires the pipeline components behind HTTP handlers.
type Server struct {
	cfg       *config.Config
	assembler *sprite.Assembler
	processor *pipeline.Processor
	critical  *critical.Cache
	fonts     *preload.FontRegistry
	store     cache.Store
	logger    logging.Logger
	resolver  SiteResolver
	assetDir  string
}

// New creates a server over the given pipeline components.
func New(cfg *config.Config, assembler *sprite.Assembler, processor *pipeline.Processor,
	crit *critical.Cache, fonts *preload.FontRegistry, store cache.Store, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Server{
		cfg:       cfg,
		assembler: assembler,
		processor: processor,
		critical:  crit,
		fonts:     fonts,
		store:     store,
		logger:    logger.WithComponent("server"),
		resolver:  HeaderSiteResolver,
		assetDir:  cfg.Assets.SourceDir,
	}
}

// SetSiteResolver replaces the default site resolver.
func (s *Server) SetSiteResolver(resolver SiteResolver) {
	s.resolver = resolver
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	if s.cfg.Preload.Enabled && s.fonts != nil {
		r.Use(s.preloadHeader)
	}

	r.Get("/assets/sprite.svg", s.handleSprite)
	r.Get("/assets/css/{name}", s.handleCSS)
	r.Get("/assets/js/{name}", s.handleJS)
	if s.cfg.Critical.Enabled {
		r.Get("/assets/critical/{page}/{viewport}.css", s.handleCriticalCSS)
	}
	return r
}

// handleCriticalCSS serves the cached critical CSS for a page and
// viewport. A cold cache is not an error: the response is empty and the
// page simply loads without inlined styles.
func (s *Server) handleCriticalCSS(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	var viewport fingerprint.Viewport
	switch chi.URLParam(r, "viewport") {
	case string(fingerprint.ViewportMobile):
		viewport = fingerprint.ViewportMobile
	case string(fingerprint.ViewportDesktop):
		viewport = fingerprint.ViewportDesktop
	default:
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	if css, ok := s.critical.CSS(page, viewport); ok {
		w.Write(css)
	}
}

// handleSprite serves the assembled sprite for the requesting site. The
// serving boundary never transmits raw empty text: anything empty is
// replaced by the minimal valid container.
func (s *Server) handleSprite(w http.ResponseWriter, r *http.Request) {
	assembled := s.assembler.Assemble(r.Context(), s.resolver(r))
	document := assembled.Document
	if document == "" {
		document = sprite.EmptyDocument
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(document))
}

func (s *Server) handleCSS(w http.ResponseWriter, r *http.Request) {
	s.handleText(w, r, chi.URLParam(r, "name"), "text/css; charset=utf-8", s.cfg.Minify.CSS, s.processor.CSS)
}

func (s *Server) handleJS(w http.ResponseWriter, r *http.Request) {
	s.handleText(w, r, chi.URLParam(r, "name"), "application/javascript; charset=utf-8", s.cfg.Minify.JS, s.processor.JS)
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request, name, contentType string, minified bool,
	process func(context.Context, string, []byte, bool) []byte) {
	if name != filepath.Base(name) {
		http.NotFound(w, r)
		return
	}
	src, err := os.ReadFile(filepath.Join(s.assetDir, name))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	out := process(r.Context(), name, src, minified)
	w.Header().Set("Content-Type", contentType)
	w.Write(out)
}

// preloadHeader attaches the font preload Link header.
func (s *Server) preloadHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if header := s.fonts.LinkHeader(s.cfg.Assets.FontPublicPrefix); header != "" {
			w.Header().Set("Link", header)
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Server.Host + ":" + strconv.Itoa(s.cfg.Server.Port),
		Handler: s.Router(),
	}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	s.logger.Info(ctx, "serving assets", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
