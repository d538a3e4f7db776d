package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lensfolio/internal/notify"
	"lensfolio/internal/session"
	"lensfolio/internal/storage"
	"lensfolio/pkg/domain"
	"lensfolio/pkg/retry"
	"lensfolio/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	SessionSecret string
	SessionTTL    time.Duration
	UploadsDir    string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	AdminUsername string
	AdminPassword string

	// Injection points for tests; nil values get real backends.
	Store       store.Store
	Sessions    session.Store
	Blobs       storage.Blob
	Notifier    *notify.Notifier
	RetryPolicy *retry.Policy
}

// App is the core application service wiring persistence, sessions,
// upload storage, and notification fan-out together.
type App struct {
	store    store.Store
	sessions session.Store
	blobs    storage.Blob
	objects  *storage.ObjectStore
	notifier *notify.Notifier

	uploadsDir string
}

// New constructs the application. Every store call made through the
// returned App runs under the bounded retry policy.
func New(cfg Config) (*App, error) {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		gormStore, err := store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		dataStore = gormStore
	}
	dataStore = store.NewRetryingStore(dataStore, cfg.RetryPolicy)

	sessionStore := cfg.Sessions
	if sessionStore == nil {
		switch {
		case cfg.RedisAddr != "":
			sessionStore = session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		case cfg.SessionSecret != "":
			sessionStore = session.NewJWTStore(cfg.SessionSecret, cfg.SessionTTL)
		default:
			return nil, fmt.Errorf("session store required (redisAddr or sessionSecret)")
		}
	}

	a := &App{
		store:      dataStore,
		sessions:   sessionStore,
		notifier:   cfg.Notifier,
		uploadsDir: cfg.UploadsDir,
	}
	if a.notifier == nil {
		a.notifier = notify.NewNotifier(nil, nil)
	}

	a.blobs = cfg.Blobs
	if a.blobs == nil {
		if cfg.MinioEndpoint != "" {
			objects, err := storage.NewObjectStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
			if err != nil {
				return nil, fmt.Errorf("init object store: %w", err)
			}
			a.objects = objects
			a.blobs = objects
		} else {
			if cfg.UploadsDir == "" {
				cfg.UploadsDir = "uploads"
				a.uploadsDir = cfg.UploadsDir
			}
			files, err := storage.NewFileStore(cfg.UploadsDir)
			if err != nil {
				return nil, fmt.Errorf("init file store: %w", err)
			}
			a.blobs = files
		}
	}

	if err := a.provisionAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return nil, err
	}
	return a, nil
}

// provisionAdmin creates the configured admin account once. Credentials
// come from configuration, never from source; when absent the app runs
// read-only until an admin is provisioned.
func (a *App) provisionAdmin(username, password string) error {
	if username == "" || password == "" {
		slog.Warn("no admin credentials configured, mutating endpoints will stay unreachable")
		return nil
	}
	_, exists, err := a.store.GetAdminByUsername(username)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := a.store.CreateAdmin(domain.Admin{Username: username, PasswordHash: string(hash)}); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.Info("admin account provisioned", "username", username)
	return nil
}

// Login checks credentials and opens a session. Unknown usernames and
// wrong passwords produce the same error.
func (a *App) Login(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	admin, found, err := a.store.GetAdminByUsername(username)
	if err != nil {
		return "", fmt.Errorf("look up admin: %w", err)
	}
	if !found {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	token, err := a.sessions.Create()
	if err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	return token, nil
}

// Logout destroys the session unconditionally.
func (a *App) Logout(token string) error {
	return a.sessions.Destroy(token)
}

// SessionValid reports whether the token belongs to a live session.
func (a *App) SessionValid(token string) (bool, error) {
	return a.sessions.Valid(token)
}

// ListPhotos returns the full collection.
func (a *App) ListPhotos() ([]domain.Photo, error) {
	return a.store.ListPhotos()
}

// GetPhoto returns one record or ErrNotFound.
func (a *App) GetPhoto(id int) (domain.Photo, error) {
	photo, found, err := a.store.GetPhoto(id)
	if err != nil {
		return domain.Photo{}, err
	}
	if !found {
		return domain.Photo{}, ErrNotFound
	}
	return photo, nil
}

// CreatePhoto validates and persists a new record.
func (a *App) CreatePhoto(photo domain.Photo) (domain.Photo, error) {
	if photo.Type == "" {
		photo.Type = domain.MediaImage
	}
	if err := validatePhoto(photo); err != nil {
		return domain.Photo{}, err
	}
	created, err := a.store.CreatePhoto(photo)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("create photo: %w", err)
	}
	return created, nil
}

// DeletePhoto removes a record; a second delete of the same id reports
// ErrNotFound, never a store error.
func (a *App) DeletePhoto(id int) error {
	deleted, err := a.store.DeletePhoto(id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// SetHomePage flips exactly the home-page flag of one record.
func (a *App) SetHomePage(id int, homePage bool) (domain.Photo, error) {
	photo, found, err := a.store.SetHomePage(id, homePage)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("update photo: %w", err)
	}
	if !found {
		return domain.Photo{}, ErrNotFound
	}
	return photo, nil
}

// SaveUpload persists an uploaded media file under a collision-free
// generated name and returns its public URL path. The declared content
// type must be image/* or video/*; anything else is rejected before any
// bytes are written.
func (a *App) SaveUpload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
		return "", fmt.Errorf("%w: only image and video uploads are accepted", ErrValidation)
	}
	key := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	if err := a.blobs.Put(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return "/uploads/" + key, nil
}

// Contact fans the submission out to the configured channels and
// reports per-channel outcomes.
func (a *App) Contact(ctx context.Context, msg domain.ContactMessage) notify.Outcome {
	return a.notifier.DispatchContact(ctx, msg)
}

// Objects returns the MinIO store when uploads live in a bucket, nil in
// disk mode. The HTTP layer uses it to redirect /uploads requests to
// presigned URLs.
func (a *App) Objects() *storage.ObjectStore {
	return a.objects
}

// UploadsDir returns the local uploads directory in disk mode.
func (a *App) UploadsDir() string {
	return a.uploadsDir
}

func validatePhoto(photo domain.Photo) error {
	if strings.TrimSpace(photo.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(photo.ImageURL) == "" {
		return fmt.Errorf("%w: imageUrl is required", ErrValidation)
	}
	if strings.TrimSpace(photo.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if !photo.Type.Valid() {
		return fmt.Errorf("%w: type must be image or video", ErrValidation)
	}
	return nil
}
