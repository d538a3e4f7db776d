package store

import "lensfolio/pkg/domain"

// Store defines persistence operations for photos and admins.
//
// Lookup methods follow the (value, found, error) convention: a missing
// row is not an error. DeletePhoto reports whether a row was actually
// removed so a second delete of the same id surfaces as not-found.
type Store interface {
	// photos
	GetPhoto(id int) (domain.Photo, bool, error)
	ListPhotos() ([]domain.Photo, error)
	CreatePhoto(photo domain.Photo) (domain.Photo, error)
	DeletePhoto(id int) (bool, error)
	SetHomePage(id int, homePage bool) (domain.Photo, bool, error)

	// admins
	GetAdminByUsername(username string) (domain.Admin, bool, error)
	CreateAdmin(admin domain.Admin) (domain.Admin, error)
}
