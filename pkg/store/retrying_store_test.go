package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"lensfolio/pkg/domain"
	"lensfolio/pkg/retry"
)

// flakyStore fails a configurable number of times before delegating.
type flakyStore struct {
	Store
	failures int
	calls    int
}

func (s *flakyStore) ListPhotos() ([]domain.Photo, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("connection reset")
	}
	return s.Store.ListPhotos()
}

func (s *flakyStore) CreatePhoto(photo domain.Photo) (domain.Photo, error) {
	s.calls++
	if s.calls <= s.failures {
		return domain.Photo{}, errors.New("connection reset")
	}
	return s.Store.CreatePhoto(photo)
}

func noSleepPolicy() *retry.Policy {
	return retry.New(3, retry.LinearBackoff(time.Second)).
		WithSleep(func(context.Context, time.Duration) error { return nil })
}

func TestRetryingStoreRecoversFromTransientFailures(t *testing.T) {
	inner := &flakyStore{Store: NewMemoryStore(), failures: 2}
	s := NewRetryingStore(inner, noSleepPolicy())

	created, err := s.CreatePhoto(domain.Photo{Title: "Sunset", ImageURL: "/uploads/a.jpg", Category: "landscape", Type: domain.MediaImage})
	if err != nil {
		t.Fatalf("create photo: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected generated id")
	}
	if inner.calls != 3 {
		t.Fatalf("inner calls = %d, want 3", inner.calls)
	}
}

func TestRetryingStoreSurfacesErrorAfterBudget(t *testing.T) {
	inner := &flakyStore{Store: NewMemoryStore(), failures: 5}
	s := NewRetryingStore(inner, noSleepPolicy())

	if _, err := s.ListPhotos(); err == nil {
		t.Fatalf("expected error once retry budget is spent")
	}
	if inner.calls != 3 {
		t.Fatalf("inner calls = %d, want 3", inner.calls)
	}
}

func TestRetryingStorePreservesNotFoundSemantics(t *testing.T) {
	s := NewRetryingStore(NewMemoryStore(), noSleepPolicy())

	deleted, err := s.DeletePhoto(42)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted {
		t.Fatalf("expected not-found report, not an error")
	}
}
