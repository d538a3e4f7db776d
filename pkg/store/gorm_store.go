package store

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lensfolio/pkg/domain"
)

const (
	maxOpenConns    = 20
	connMaxIdleTime = 30 * time.Second
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB, bounds the connection pool, and runs
// auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	if err := db.AutoMigrate(&PhotoModel{}, &AdminModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// GetPhoto returns a photo by id.
func (s *GormStore) GetPhoto(id int) (domain.Photo, bool, error) {
	var model PhotoModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Photo{}, false, nil
		}
		return domain.Photo{}, false, err
	}
	return photoFromModel(model), true, nil
}

// ListPhotos returns all photos ordered by id.
func (s *GormStore) ListPhotos() ([]domain.Photo, error) {
	var models []PhotoModel
	if err := s.db.Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Photo, 0, len(models))
	for _, m := range models {
		res = append(res, photoFromModel(m))
	}
	return res, nil
}

// CreatePhoto inserts a photo and returns it with the generated id.
func (s *GormStore) CreatePhoto(photo domain.Photo) (domain.Photo, error) {
	model := photoToModel(photo)
	model.ID = 0
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Photo{}, err
	}
	return photoFromModel(model), nil
}

// DeletePhoto removes a photo by id and reports whether a row existed.
func (s *GormStore) DeletePhoto(id int) (bool, error) {
	res := s.db.Delete(&PhotoModel{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetHomePage updates exactly the home_page column and returns the
// updated record.
func (s *GormStore) SetHomePage(id int, homePage bool) (domain.Photo, bool, error) {
	res := s.db.Model(&PhotoModel{}).Where("id = ?", id).Update("home_page", homePage)
	if res.Error != nil {
		return domain.Photo{}, false, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Photo{}, false, nil
	}
	return s.GetPhoto(id)
}

// GetAdminByUsername looks up an admin account.
func (s *GormStore) GetAdminByUsername(username string) (domain.Admin, bool, error) {
	var model AdminModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Admin{}, false, nil
		}
		return domain.Admin{}, false, err
	}
	return adminFromModel(model), true, nil
}

// CreateAdmin inserts an admin account.
func (s *GormStore) CreateAdmin(admin domain.Admin) (domain.Admin, error) {
	model := adminToModel(admin)
	model.ID = 0
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Admin{}, err
	}
	return adminFromModel(model), nil
}

func photoToModel(p domain.Photo) PhotoModel {
	return PhotoModel{
		ID:          p.ID,
		Title:       p.Title,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Description: p.Description,
		Type:        string(p.Type),
		Featured:    p.Featured,
		HomePage:    p.HomePage,
	}
}

func photoFromModel(m PhotoModel) domain.Photo {
	return domain.Photo{
		ID:          m.ID,
		Title:       m.Title,
		ImageURL:    m.ImageURL,
		Category:    m.Category,
		Description: m.Description,
		Type:        domain.MediaType(m.Type),
		Featured:    m.Featured,
		HomePage:    m.HomePage,
	}
}

func adminToModel(a domain.Admin) AdminModel {
	return AdminModel{ID: a.ID, Username: a.Username, PasswordHash: a.PasswordHash}
}

func adminFromModel(m AdminModel) domain.Admin {
	return domain.Admin{ID: m.ID, Username: m.Username, PasswordHash: m.PasswordHash}
}
