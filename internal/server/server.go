package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/auriti-labs/geo-optimizer/internal/app"
	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/history"
	"github.com/auriti-labs/geo-optimizer/internal/logging"
	"github.com/auriti-labs/geo-optimizer/internal/report"
	"github.com/auriti-labs/geo-optimizer/internal/utils"
)

// Server is the HTTP + WebSocket surface of the GEO Optimizer.
type Server struct {
	cfg      Config
	app      *app.Application
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
	metrics  *metrics
}

// NewServer creates a new Server with its own Application.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("server")
	}

	a, err := app.NewApplication(cfg.AppConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:     cfg,
		app:     a,
		router:  r,
		logger:  logger,
		metrics: newMetrics(),
		upgrader: websocket.Upgrader{
			// Same origin policy as the REST routes, which answer with CORS "*".
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	s.routes()
	return s, nil
}

// App returns the underlying application for advanced use (tests, etc.).
func (s *Server) App() *app.Application {
	return s.app
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/api/audit", s.optionsHandler("GET, POST"))
	r.Options("/api/history", s.optionsHandler("GET"))
	r.Options("/report/{id}", s.optionsHandler("GET"))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Get("/api/audit", s.handleAudit)
	r.Post("/api/audit", s.handleAudit)
	r.Get("/api/history", s.handleHistory)
	r.Get("/report/{id}", s.handleReport)

	r.Get("/ws/audit", s.handleAuditWS)

	r.Handle("/metrics", s.metrics.handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes)); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)
	s.metrics.requests.WithLabelValues(r.Method, routeLabel(r.URL.Path)).Inc()

	s.router.ServeHTTP(w, r)
}

const maxBodyBytes = 64 << 10

// routeLabel keeps the metric cardinality bounded.
func routeLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/report/"):
		return "/report/{id}"
	case strings.HasPrefix(path, "/swagger/"):
		return "/swagger"
	}
	switch path {
	case "/", "/health", "/api/audit", "/api/history", "/ws/audit", "/metrics":
		return path
	}
	return "other"
}

// Close shuts down the application and underlying resources.
func (s *Server) Close() {
	if s.app != nil {
		s.app.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// URL is the address printed when the server starts.
func (s *Server) URL() string {
	return "http://" + s.cfg.ListenAddr
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

var contentTypes = map[string]string{
	report.FormatHTML:     "text/html; charset=utf-8",
	report.FormatJSON:     "application/json",
	report.FormatMarkdown: "text/markdown; charset=utf-8",
	report.FormatGitHub:   "text/plain; charset=utf-8",
	report.FormatText:     "text/plain; charset=utf-8",
}

func (s *Server) writeReport(w http.ResponseWriter, res *audit.AuditResult, format string) {
	out, err := report.Format(res, format, s.app.Translator())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", contentTypes[strings.ToLower(format)])
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

func validFormat(format string) bool {
	_, ok := contentTypes[strings.ToLower(format)]
	return ok
}

// --- HTTP handlers ---

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, map[string]any{"Version": app.Version}); err != nil {
		s.logger.Warn("rendering index", logging.Field{Key: "error", Value: err.Error()})
	}
}

// handleHealth godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, err := s.app.History()
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: app.Version, History: err == nil})
}

// handleAudit godoc
// @Summary Run a GEO audit
// @Tags audit
// @Accept json
// @Produce json
// @Param url query string false "Site URL"
// @Param format query string false "json, html, markdown, github or text"
// @Param request body AuditRequest false "Audit request"
// @Success 200 {object} audit.AuditResult
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/audit [get]
// @Router /api/audit [post]
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	req := AuditRequest{
		URL:    r.URL.Query().Get("url"),
		Format: r.URL.Query().Get("format"),
	}
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.logger.Warn("decoding audit body", logging.Field{Key: "error", Value: err.Error()})
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}
	if req.Format == "" {
		req.Format = report.FormatJSON
	}
	if !validFormat(req.Format) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", req.Format))
		return
	}

	target, err := normalizeTarget(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.app.Audit(r.Context(), target)
	if err != nil {
		s.metrics.fetchErrors.WithLabelValues("homepage").Inc()
		s.logger.Warn("audit failed", logging.Field{Key: "url", Value: target}, logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.metrics.observeAudit(res)
	s.logger.Info("audit completed", logging.Field{Key: "url", Value: res.URL}, logging.Field{Key: "score", Value: res.Score})
	s.writeReport(w, res, req.Format)
}

// handleHistory godoc
// @Summary List stored audits
// @Tags history
// @Produce json
// @Param url query string false "Filter by site URL"
// @Param limit query int false "Maximum number of audits"
// @Success 200 {object} HistoryResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/history [get]
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	store, err := s.app.History()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	url := r.URL.Query().Get("url")
	if url != "" {
		if norm, err := utils.NormalizeBaseURL(url); err == nil {
			url = norm
		}
	}
	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	list, err := store.List(r.Context(), url, limit)
	if err != nil {
		s.logger.Warn("listing history", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{URL: url, Audits: list})
}

// handleReport godoc
// @Summary Render a stored audit
// @Tags history
// @Produce html
// @Param id path string true "Audit ID"
// @Param format query string false "html (default), json, markdown, github or text"
// @Success 200 {string} string
// @Failure 404 {object} ErrorResponse
// @Router /report/{id} [get]
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	store, err := s.app.History()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = report.FormatHTML
	}
	if !validFormat(format) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
		return
	}

	id := chi.URLParam(r, "id")
	res, err := store.Get(r.Context(), id)
	if errors.Is(err, history.ErrAuditNotFound) {
		writeError(w, http.StatusNotFound, "audit not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeReport(w, res, format)
}

// handleAuditWS streams job events for an audit of ?url= and closes the
// socket after the final status or result event.
func (s *Server) handleAuditWS(w http.ResponseWriter, r *http.Request) {
	target, err := normalizeTarget(r.URL.Query().Get("url"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	job, err := s.app.StartAuditJob(context.Background(), target)
	if err != nil {
		s.logger.Warn("starting audit job", logging.Field{Key: "error", Value: err.Error()})
		_ = conn.WriteJSON(ErrorResponse{Error: err.Error()})
		return
	}
	s.logger.Info("started audit job", logging.Field{Key: "job_id", Value: job.ID}, logging.Field{Key: "url", Value: target})

	for ev := range job.Events {
		if ev.Type == app.JobEventResult && ev.Result != nil {
			s.metrics.observeAudit(ev.Result)
		}
		if ev.Status == app.JobFailed {
			s.metrics.fetchErrors.WithLabelValues("homepage").Inc()
		}
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected; cancel job
			s.app.CancelJob(job.ID)
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func normalizeTarget(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("missing url")
	}
	target, err := utils.NormalizeBaseURL(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	return target, nil
}
