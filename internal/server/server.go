package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vsxregistry/internal/marketplace"
	"vsxregistry/internal/models"
	"vsxregistry/internal/pluginhost"
	"vsxregistry/internal/progress"
	"vsxregistry/internal/registry"
	"vsxregistry/internal/utils"
	"vsxregistry/internal/view"

	"github.com/gorilla/mux"
)

// Registry is what the panel API needs from the registry service.
type Registry interface {
	view.Service
	Find(ctx context.Context, param *models.SearchParam) error
	GetExtensionDetail(ctx context.Context, extensionURL string) (*models.ExtensionFull, error)
	GetExtensionReviews(ctx context.Context, reviewsURL string) (*models.ReviewList, error)
	CompileDocumentation(ctx context.Context, extension models.ExtensionFull) (string, error)
	CreateEndpoint(segments []string, queries ...registry.Query) string
}

// Progress lists the running operations of a location.
type Progress interface {
	progress.Service
	Active(location string) []progress.Operation
}

type Server struct {
	registry Registry
	progress Progress
	logger   *utils.Logger
	router   *mux.Router
	server   *http.Server
	useHTTPS bool
	certFile string
	keyFile  string
}

func New(reg Registry, prog Progress, logger *utils.Logger) *Server {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	s := &Server{
		registry: reg,
		progress: prog,
		logger:   logger,
		router:   mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func NewWithHTTPS(reg Registry, prog Progress, logger *utils.Logger, certFile, keyFile string) *Server {
	s := New(reg, prog, logger)
	s.useHTTPS = true
	s.certFile = certFile
	s.keyFile = keyFile
	return s
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.LogServerStart(addr)
	if s.useHTTPS {
		return s.server.ListenAndServeTLS(s.certFile, s.keyFile)
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) setupRoutes() {
	// Routes live on the root router so method mismatches reach
	// MethodNotAllowedHandler; nested mux subrouters report them as 404.
	s.router.HandleFunc("/", s.handleRoot).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/installed", s.handleInstalled).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/installed/{publisher}/{name}", s.handleUninstall).Methods("DELETE", "OPTIONS")
	s.router.HandleFunc("/api/search", s.handleSearch).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/install", s.handleInstall).Methods("POST", "OPTIONS")
	s.router.HandleFunc("/api/extension/{publisher}/{name}", s.handleExtension).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/extension/{publisher}/{name}/readme", s.handleReadme).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/extension/{publisher}/{name}/reviews", s.handleReviews).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/progress/{location}", s.handleProgress).Methods("GET", "OPTIONS")

	s.router.Use(s.corsMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.logger.LogRequest(r)
		next.ServeHTTP(w, r)
		s.logger.LogResponse(r, start)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w)
		s.setHTTPHeaders(w)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", utils.CORSAllowOrigin)
	w.Header().Set("Access-Control-Allow-Methods", utils.CORSAllowMethods)
	w.Header().Set("Access-Control-Allow-Headers", utils.CORSAllowHeaders)
	w.Header().Set("Access-Control-Max-Age", utils.CORSMaxAge)
}

func (s *Server) setHTTPHeaders(w http.ResponseWriter) {
	w.Header().Set(utils.CacheControlHeader, utils.HTTPCacheControl)
	w.Header().Set("Pragma", utils.HTTPPragma)
	w.Header().Set("Expires", utils.HTTPExpires)
	w.Header().Set("X-Content-Type-Options", utils.HTTPContentTypeOptions)
	w.Header().Set("X-Frame-Options", utils.HTTPFrameOptions)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "vsxregistry",
		"description": "Extension browser for an Open VSX registry",
		"version":     "1.0.0",
		"endpoints": map[string]string{
			"installed": "/api/installed",
			"search":    "/api/search",
			"install":   "/api/install",
			"extension": "/api/extension/{publisher}/{name}",
			"progress":  "/api/progress/" + view.ProgressLocation,
		},
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleInstalled(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.Installed())
}

// handleSearch runs a search and answers with the committed result, which
// may belong to a concurrent search that completed later.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if err := s.registry.Find(r.Context(), &models.SearchParam{Query: query}); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	result := s.registry.SearchResult()
	s.logger.LogSearchQuery(query, len(result))
	s.writeJSON(w, http.StatusOK, result)
}

type installRequest struct {
	Publisher string `json:"publisher"`
	Name      string `json:"name"`
}

func (s *Server) handleInstall(w http.ResponseWriter, r *http.Request) {
	var req installRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if req.Publisher == "" || req.Name == "" {
		s.writeError(w, http.StatusBadRequest, "publisher and name are required")
		return
	}

	detail, err := s.registry.GetExtensionDetail(r.Context(), s.extensionURL(req.Publisher, req.Name))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if detail == nil || detail.DownloadURL == "" {
		s.writeError(w, http.StatusNotFound, "Extension has no download")
		return
	}

	ext := detail.ExtensionPart
	if err := s.list().Install(r.Context(), ext); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.logger.LogExtensionInfo(ext.ID(), ext.Label(), ext.Publisher)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "installed", "id": ext.ID()})
}

func (s *Server) handleUninstall(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ext := models.ExtensionPart{Publisher: vars["publisher"], Name: vars["name"]}

	if err := s.list().Uninstall(r.Context(), ext); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "uninstalled", "id": pluginhost.PluginID(ext.Publisher, ext.Name)})
}

func (s *Server) handleExtension(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleReadme(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.lookup(w, r)
	if !ok {
		return
	}
	html, err := s.registry.CompileDocumentation(r.Context(), *detail)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	w.Header().Set(utils.ContentTypeHeader, utils.HTMLContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if detail.ReviewsURL == "" {
		s.writeJSON(w, http.StatusOK, models.ReviewList{Reviews: []models.Review{}})
		return
	}
	reviews, err := s.registry.GetExtensionReviews(r.Context(), detail.ReviewsURL)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.progress.Active(mux.Vars(r)["location"]))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*models.ExtensionFull, bool) {
	vars := mux.Vars(r)
	detail, err := s.registry.GetExtensionDetail(r.Context(), s.extensionURL(vars["publisher"], vars["name"]))
	if err != nil {
		s.writeFailure(w, r, err)
		return nil, false
	}
	if detail == nil {
		s.writeError(w, http.StatusNotFound, "Extension not found")
		return nil, false
	}
	return detail, true
}

// list runs actions the way the list widgets do, under the shared progress
// location.
func (s *Server) list() *view.List {
	return &view.List{
		ProgressLocation: view.ProgressLocation,
		Progress:         s.progress,
		Service:          s.registry,
	}
}

func (s *Server) extensionURL(publisher, name string) string {
	return s.registry.CreateEndpoint([]string{publisher, name})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.logger.Infow("API: 404 - Not Found", "method", r.Method, "path", r.URL.Path)
	s.writeError(w, http.StatusNotFound, "Page not found")
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.logger.Infow("API: 405 - Method Not Allowed", "method", r.Method, "path", r.URL.Path)
	s.writeError(w, http.StatusMethodNotAllowed, "Method not supported")
}

// writeFailure maps service errors onto status codes.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var httpErr *marketplace.HTTPError
	switch {
	case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound:
		status = http.StatusNotFound
	case errors.As(err, &httpErr), errors.Is(err, marketplace.ErrRegistry):
		status = http.StatusBadGateway
	case errors.Is(err, pluginhost.ErrPluginNotFound):
		status = http.StatusNotFound
	}

	s.logger.Warnw("API request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	s.writeError(w, status, err.Error())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	if contentType := w.Header().Get(utils.ContentTypeHeader); contentType == "" || !strings.HasPrefix(contentType, utils.JSONContentType) {
		w.Header().Set(utils.ContentTypeHeader, utils.JSONContentType)
	}
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("Error encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
		"status":  status,
	}

	s.writeJSON(w, status, errorResponse)
}
