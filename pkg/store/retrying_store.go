package store

import (
	"context"

	"lensfolio/pkg/domain"
	"lensfolio/pkg/retry"
)

// RetryingStore decorates a Store so that every operation runs under a
// bounded retry policy. Errors only surface to callers once the policy's
// attempt budget is exhausted.
type RetryingStore struct {
	inner  Store
	policy *retry.Policy
}

// NewRetryingStore wraps inner with the given policy. A nil policy gets
// the default 3-attempt linear-backoff policy.
func NewRetryingStore(inner Store, policy *retry.Policy) *RetryingStore {
	if policy == nil {
		policy = retry.Default()
	}
	return &RetryingStore{inner: inner, policy: policy}
}

func (s *RetryingStore) GetPhoto(id int) (domain.Photo, bool, error) {
	var photo domain.Photo
	var found bool
	err := s.policy.Do(context.Background(), func() error {
		var err error
		photo, found, err = s.inner.GetPhoto(id)
		return err
	})
	return photo, found, err
}

func (s *RetryingStore) ListPhotos() ([]domain.Photo, error) {
	var photos []domain.Photo
	err := s.policy.Do(context.Background(), func() error {
		var err error
		photos, err = s.inner.ListPhotos()
		return err
	})
	return photos, err
}

func (s *RetryingStore) CreatePhoto(photo domain.Photo) (domain.Photo, error) {
	var created domain.Photo
	err := s.policy.Do(context.Background(), func() error {
		var err error
		created, err = s.inner.CreatePhoto(photo)
		return err
	})
	return created, err
}

func (s *RetryingStore) DeletePhoto(id int) (bool, error) {
	var deleted bool
	err := s.policy.Do(context.Background(), func() error {
		var err error
		deleted, err = s.inner.DeletePhoto(id)
		return err
	})
	return deleted, err
}

func (s *RetryingStore) SetHomePage(id int, homePage bool) (domain.Photo, bool, error) {
	var photo domain.Photo
	var found bool
	err := s.policy.Do(context.Background(), func() error {
		var err error
		photo, found, err = s.inner.SetHomePage(id, homePage)
		return err
	})
	return photo, found, err
}

func (s *RetryingStore) GetAdminByUsername(username string) (domain.Admin, bool, error) {
	var admin domain.Admin
	var found bool
	err := s.policy.Do(context.Background(), func() error {
		var err error
		admin, found, err = s.inner.GetAdminByUsername(username)
		return err
	})
	return admin, found, err
}

func (s *RetryingStore) CreateAdmin(admin domain.Admin) (domain.Admin, error) {
	var created domain.Admin
	err := s.policy.Do(context.Background(), func() error {
		var err error
		created, err = s.inner.CreateAdmin(admin)
		return err
	})
	return created, err
}
