package sky

import "context"

// Provider abstracts an astronomy data source (e.g. the USNO API).
// Implementations map the upstream payloads for one location and date into
// the canonical object list; partial upstream data narrows the list rather
// than failing.
type Provider interface {
	Name() string
	SkyObjects(ctx context.Context, lat, lon float64, date string) ([]SkyObject, error)
}
