package gallery

import "lensfolio/pkg/domain"

// Filter selects a view over a photo collection. Zero-valued fields match
// everything; Featured and HomePage are tri-state so "unset" and "false"
// stay distinguishable.
type Filter struct {
	Type     domain.MediaType
	Category string
	Featured *bool
	HomePage *bool
	MaxItems int
}

// Bool is a convenience for building tri-state filter fields.
func Bool(v bool) *bool { return &v }

// Apply returns the photos matching the filter, in input order, capped at
// MaxItems when positive. It never mutates the input slice.
func (f Filter) Apply(photos []domain.Photo) []domain.Photo {
	out := make([]domain.Photo, 0, len(photos))
	for _, p := range photos {
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Featured != nil && p.Featured != *f.Featured {
			continue
		}
		if f.HomePage != nil && p.HomePage != *f.HomePage {
			continue
		}
		out = append(out, p)
		if f.MaxItems > 0 && len(out) == f.MaxItems {
			break
		}
	}
	return out
}
