package domain

// MediaType distinguishes still images from video clips.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Valid reports whether the media type is one of the known values.
func (t MediaType) Valid() bool {
	return t == MediaImage || t == MediaVideo
}

// Photo is a single gallery entry. Despite the name it covers both
// images and videos; Type tells them apart.
type Photo struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"imageUrl"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Type        MediaType `json:"type"`
	Featured    bool      `json:"featured"`
	HomePage    bool      `json:"homePage"`
}

// Admin is a site administrator account. Only the bcrypt hash of the
// password is ever stored or carried around.
type Admin struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// ContactMessage is a visitor submission from the public contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
