package models

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageBounds clamps a requested limit/offset to the accepted range.
func PageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
