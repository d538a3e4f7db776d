package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lensfolio/internal/app"
	"lensfolio/internal/ratelimit"
	"lensfolio/internal/util"
	"lensfolio/pkg/domain"
)

const (
	sessionCookieName = "lensfolio_session"
	maxUploadBytes    = 100 << 20
	uploadCacheMaxAge = 24 * time.Hour
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App            *app.App
	LoginLimiter   *ratelimit.FixedWindowLimiter
	AllowedOrigins []string
	TrustForwarded bool
	SessionTTL     time.Duration
	MaxUploadBytes int64
	SecureCookies  bool
}

// Server exposes the portfolio HTTP endpoints.
type Server struct {
	app            *app.App
	loginLimiter   *ratelimit.FixedWindowLimiter
	allowedOrigins []string
	trustForwarded bool
	sessionTTL     time.Duration
	maxUploadBytes int64
	secureCookies  bool
	mux            *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:            cfg.App,
		loginLimiter:   cfg.LoginLimiter,
		allowedOrigins: cfg.AllowedOrigins,
		trustForwarded: cfg.TrustForwarded,
		sessionTTL:     cfg.SessionTTL,
		maxUploadBytes: cfg.MaxUploadBytes,
		secureCookies:  cfg.SecureCookies,
		mux:            http.NewServeMux(),
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = 24 * time.Hour
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = maxUploadBytes
	}
	s.routes()
	return s
}

// Router returns the configured handler wrapped in the middleware chain.
func (s *Server) Router() http.Handler {
	var handler http.Handler = s.mux
	handler = s.recoverPanics(handler)
	handler = util.WithCORS(s.allowedOrigins, handler)
	handler = util.WithRequestLog(handler)
	handler = util.WithRequestID(handler)
	return handler
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/logout", s.handleLogout)
	s.mux.HandleFunc("/api/auth/status", s.handleStatus)

	// gallery
	s.mux.HandleFunc("/api/photos", s.handlePhotos)
	s.mux.HandleFunc("/api/photos/", s.handlePhotoByID)
	s.mux.Handle("/api/upload", s.authenticated(s.handleUpload))

	// contact
	s.mux.HandleFunc("/api/contact", s.handleContact)

	// uploaded media
	s.mux.HandleFunc("/uploads/", s.handleUploads)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authorize(r) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	})
}

func (s *Server) authorize(r *http.Request) bool {
	token, ok := sessionToken(r)
	if !ok {
		return false
	}
	valid, err := s.app.SessionValid(token)
	if err != nil {
		slog.Warn("session lookup failed", "request_id", util.RequestIDFromRequest(r), "error", err)
		return false
	}
	return valid
}

func sessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// auth handlers
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.loginLimiter.Allow(util.ClientIP(r, s.trustForwarded)) {
		writeError(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, err := s.app.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			slog.Warn("login rejected", "request_id", util.RequestIDFromRequest(r), "ip", util.ClientIP(r, s.trustForwarded))
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.writeAppError(w, r, err)
		return
	}
	slog.Info("admin logged in", "request_id", util.RequestIDFromRequest(r), "username", req.Username)
	http.SetCookie(w, s.sessionCookie(token, s.sessionTTL))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged in successfully"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if token, ok := sessionToken(r); ok {
		if err := s.app.Logout(token); err != nil {
			slog.Warn("session destroy failed", "request_id", util.RequestIDFromRequest(r), "error", err)
		}
	}
	// Logout always succeeds, even without a live session.
	http.SetCookie(w, s.sessionCookie("", -time.Hour))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isAuthenticated": s.authorize(r)})
}

func (s *Server) sessionCookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// gallery handlers
func (s *Server) handlePhotos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		photos, err := s.app.ListPhotos()
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		if photos == nil {
			photos = []domain.Photo{}
		}
		writeJSON(w, http.StatusOK, photos)
	case http.MethodPost:
		s.authenticated(s.handleCreatePhoto).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCreatePhoto(w http.ResponseWriter, r *http.Request) {
	var photo domain.Photo
	if err := decodeJSON(r, &photo); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := s.app.CreatePhoto(photo)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handlePhotoByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/photos/")
	idStr, action, _ := strings.Cut(rest, "/")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		photo, err := s.app.GetPhoto(id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, photo)
	case action == "" && r.Method == http.MethodDelete:
		s.authenticated(func(w http.ResponseWriter, r *http.Request) {
			if err := s.app.DeletePhoto(id); err != nil {
				s.writeAppError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"message": "Photo deleted successfully"})
		}).ServeHTTP(w, r)
	case action == "homepage" && r.Method == http.MethodPatch:
		s.authenticated(func(w http.ResponseWriter, r *http.Request) {
			s.handleSetHomePage(w, r, id)
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleSetHomePage(w http.ResponseWriter, r *http.Request, id int) {
	// Decode into raw JSON first so a non-boolean homePage value is a 400
	// before the store is touched.
	var req struct {
		HomePage json.RawMessage `json:"homePage"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	var homePage bool
	if err := json.Unmarshal(req.HomePage, &homePage); err != nil {
		writeError(w, http.StatusBadRequest, "homePage must be a boolean")
		return
	}
	updated, err := s.app.SetHomePage(id, homePage)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// upload handler
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	file, header, err := r.FormFile("media")
	if err != nil {
		// Oversized payloads are a validation failure like any other
		// rejected upload, not a transport-level 413.
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	url, err := s.app.SaveUpload(r.Context(), header.Filename, contentType, header.Size, file)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// contact handler
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var msg domain.ContactMessage
	if err := decodeJSON(r, &msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		writeError(w, http.StatusBadRequest, "name, email and message are required")
		return
	}
	if !emailPattern.MatchString(msg.Email) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	outcome := s.app.Contact(r.Context(), msg)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Message received",
		"email":   outcome.Email,
		"sms":     outcome.SMS,
	})
}

// handleUploads serves stored media. Disk-backed blobs are served directly
// with a day-long cache directive; object-store blobs redirect to a
// pre-signed URL.
func (s *Server) handleUploads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/uploads/")
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "..") {
		http.NotFound(w, r)
		return
	}
	if objects := s.app.Objects(); objects != nil {
		url, err := objects.PresignGet(r.Context(), key, uploadCacheMaxAge)
		if err != nil {
			slog.Error("presign upload url", "request_id", util.RequestIDFromRequest(r), "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
		return
	}
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(uploadCacheMaxAge/time.Second)))
	http.ServeFile(w, r, filepath.Join(s.app.UploadsDir(), key))
}

// recoverPanics is the last-resort handler: a panicking request turns into
// a generic 500 instead of tearing down the connection.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "request_id", util.RequestIDFromRequest(r), "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, "Photo not found")
	default:
		slog.Error("request failed", "request_id", util.RequestIDFromRequest(r), "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
