package store

// GORM models used for persistence.
type PhotoModel struct {
	ID          int    `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	ImageURL    string `gorm:"not null"`
	Category    string `gorm:"not null"`
	Description string `gorm:"not null;default:''"`
	Type        string `gorm:"not null;default:'image'"`
	Featured    bool   `gorm:"not null;default:false"`
	HomePage    bool   `gorm:"not null;default:false"`
}

type AdminModel struct {
	ID           int    `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}
