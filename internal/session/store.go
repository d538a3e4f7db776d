package session

// Store persists authenticated sessions keyed by an opaque client-held
// token. A session only carries one fact: the holder logged in as the
// admin. Expiry is the backend's concern (TTL).
type Store interface {
	// Create issues a token for a freshly authenticated session.
	Create() (string, error)
	// Valid reports whether the token belongs to a live session.
	Valid(token string) (bool, error)
	// Destroy ends the session unconditionally.
	Destroy(token string) error
}
