package sky

import "strings"

// Catalog is the allow-list of celestial-navigation bodies worth surfacing.
// It is plain data so tests can substitute a smaller catalog.
type Catalog struct {
	// Planets are typed ObjectType planet when they appear in a payload.
	Planets []string
	// Notable lists the remaining allowed names (bright stars, asterisms).
	Notable []string
}

// DefaultCatalog returns the production allow-list: the naked-eye planets
// plus the bright stars the celnav feed reliably carries.
func DefaultCatalog() Catalog {
	return Catalog{
		Planets: []string{"Mercury", "Venus", "Mars", "Jupiter", "Saturn"},
		Notable: []string{
			"Polaris", "Sirius", "Vega", "Altair", "Deneb",
			"Betelgeuse", "Rigel", "Capella", "Arcturus", "Antares",
			"Spica", "Aldebaran", "Procyon", "Pollux", "Regulus",
		},
	}
}

// Allows reports whether name is on the allow-list. Matching is
// case-insensitive.
func (c Catalog) Allows(name string) bool {
	return containsFold(c.Planets, name) || containsFold(c.Notable, name)
}

// IsPlanet reports whether name is a known planet, case-insensitively.
func (c Catalog) IsPlanet(name string) bool {
	return containsFold(c.Planets, name)
}

func containsFold(list []string, name string) bool {
	for _, n := range list {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// Slug builds a response-unique object id from a display name.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
