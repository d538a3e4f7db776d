package store

import (
	"sort"
	"sync"

	"lensfolio/pkg/domain"
)

// MemoryStore keeps photos and admins in-process. Tests use it in place
// of Postgres.
type MemoryStore struct {
	mu      sync.RWMutex
	photos  map[int]domain.Photo
	admins  map[string]domain.Admin
	nextID  int
	adminID int
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		photos: make(map[int]domain.Photo),
		admins: make(map[string]domain.Admin),
	}
}

func (s *MemoryStore) GetPhoto(id int) (domain.Photo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	photo, ok := s.photos[id]
	return photo, ok, nil
}

func (s *MemoryStore) ListPhotos() ([]domain.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Photo, 0, len(s.photos))
	for _, p := range s.photos {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *MemoryStore) CreatePhoto(photo domain.Photo) (domain.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	photo.ID = s.nextID
	s.photos[photo.ID] = photo
	return photo, nil
}

func (s *MemoryStore) DeletePhoto(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.photos[id]; !ok {
		return false, nil
	}
	delete(s.photos, id)
	return true, nil
}

func (s *MemoryStore) SetHomePage(id int, homePage bool) (domain.Photo, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	photo, ok := s.photos[id]
	if !ok {
		return domain.Photo{}, false, nil
	}
	photo.HomePage = homePage
	s.photos[id] = photo
	return photo, true, nil
}

func (s *MemoryStore) GetAdminByUsername(username string) (domain.Admin, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[username]
	return admin, ok, nil
}

func (s *MemoryStore) CreateAdmin(admin domain.Admin) (domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminID++
	admin.ID = s.adminID
	s.admins[admin.Username] = admin
	return admin, nil
}
