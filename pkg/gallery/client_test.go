package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"lensfolio/pkg/domain"
)

// fakeBackend serves a mutable photo list and counts list fetches.
type fakeBackend struct {
	photos  atomic.Value // []domain.Photo
	fetches atomic.Int32
}

func newFakeBackend(photos []domain.Photo) *fakeBackend {
	if photos == nil {
		photos = []domain.Photo{}
	}
	b := &fakeBackend{}
	b.photos.Store(photos)
	return b
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/photos", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			b.fetches.Add(1)
			_ = json.NewEncoder(w).Encode(b.photos.Load())
		case http.MethodPost:
			var photo domain.Photo
			_ = json.NewDecoder(r.Body).Decode(&photo)
			current := b.photos.Load().([]domain.Photo)
			photo.ID = len(current) + 1
			b.photos.Store(append(current, photo))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(photo)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "open sesame" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "lensfolio_session", Value: "tok", Path: "/"})
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Logged in successfully"})
	})
	mux.HandleFunc("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("media"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "No file uploaded"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "/uploads/new.jpg"})
	})
	mux.HandleFunc("/api/contact", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "Message received", "email": true, "sms": false})
	})
	return mux
}

func TestPhotosServedFromCacheUntilTTL(t *testing.T) {
	backend := newFakeBackend([]domain.Photo{{ID: 1, Title: "Dunes"}})
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	now := time.Now()
	client, err := NewClient(srv.URL, WithCacheTTL(time.Minute), WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()

	for range 5 {
		if _, err := client.Photos(ctx, Filter{}); err != nil {
			t.Fatalf("photos: %v", err)
		}
	}
	if got := backend.fetches.Load(); got != 1 {
		t.Fatalf("fresh cache must serve reads without refetching, got %d fetches", got)
	}

	// Advance past the staleness window: exactly one refetch.
	now = now.Add(time.Minute + time.Second)
	if _, err := client.Photos(ctx, Filter{}); err != nil {
		t.Fatalf("photos after ttl: %v", err)
	}
	if got := backend.fetches.Load(); got != 2 {
		t.Fatalf("stale cache must refetch once, got %d fetches", got)
	}
}

func TestMutationInvalidatesCache(t *testing.T) {
	backend := newFakeBackend([]domain.Photo{{ID: 1, Title: "Dunes"}})
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	client, err := NewClient(srv.URL, WithCacheTTL(time.Hour))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()

	before, err := client.Photos(ctx, Filter{})
	if err != nil {
		t.Fatalf("photos: %v", err)
	}
	if len(before) != 1 {
		t.Fatalf("expected 1 photo, got %d", len(before))
	}

	if _, err := client.CreatePhoto(ctx, domain.Photo{Title: "Surf"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Cache TTL has an hour left, but the mutation must force a refetch.
	after, err := client.Photos(ctx, Filter{})
	if err != nil {
		t.Fatalf("photos after create: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("stale data survived a mutation: %v", after)
	}
	if got := backend.fetches.Load(); got != 2 {
		t.Fatalf("expected exactly 2 fetches, got %d", got)
	}
}

func TestUploadInvalidatesCache(t *testing.T) {
	backend := newFakeBackend(nil)
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	client, err := NewClient(srv.URL, WithCacheTTL(time.Hour))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()

	if _, err := client.Photos(ctx, Filter{}); err != nil {
		t.Fatalf("photos: %v", err)
	}
	url, err := client.Upload(ctx, "shot.jpg", "image/jpeg", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "/uploads/new.jpg" {
		t.Fatalf("unexpected url: %q", url)
	}
	if _, err := client.Photos(ctx, Filter{}); err != nil {
		t.Fatalf("photos after upload: %v", err)
	}
	if got := backend.fetches.Load(); got != 2 {
		t.Fatalf("upload must invalidate the cache, got %d fetches", got)
	}
}

func TestLoginCarriesSessionCookie(t *testing.T) {
	backend := newFakeBackend(nil)
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()

	var apiErr *APIError
	if err := client.Login(ctx, "curator", "wrong"); !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if err := client.Login(ctx, "curator", "open sesame"); err != nil {
		t.Fatalf("login: %v", err)
	}
	cookies := client.http.Jar.Cookies(mustParseURL(t, srv.URL))
	if len(cookies) != 1 || cookies[0].Value != "tok" {
		t.Fatalf("session cookie not stored: %v", cookies)
	}
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return u
}

func TestContactReportsChannelOutcomes(t *testing.T) {
	backend := newFakeBackend(nil)
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	result, err := client.Contact(context.Background(), domain.ContactMessage{
		Name: "Ada", Email: "ada@example.com", Message: "hello",
	})
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	if !result.Email || result.SMS {
		t.Fatalf("expected email=true sms=false, got %+v", result)
	}
}
