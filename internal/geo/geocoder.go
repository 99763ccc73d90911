package geo

import (
	"context"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"
)

// Result is a resolved location: coordinates plus a display name.
type Result struct {
	Lat          float64
	Lon          float64
	ResolvedName string
}

// Geocoder resolves a free-text location query into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

// GoogleGeocoder resolves queries through the Google Geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder installs the API key at construction time; nothing else
// in the process touches credentials.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

// Geocode resolves the query. The resolved display name comes from a
// best-effort reverse lookup; when that fails the trimmed query stands in.
func (g *GoogleGeocoder) Geocode(_ context.Context, query string) (Result, error) {
	q := strings.TrimSpace(query)

	loc, err := geocoder.Geocoding(parseQuery(q))
	if err != nil {
		return Result{}, fmt.Errorf("geocode %q: %w", q, err)
	}

	res := Result{
		Lat:          loc.Latitude,
		Lon:          loc.Longitude,
		ResolvedName: q,
	}

	if addrs, err := geocoder.GeocodingReverse(loc); err == nil && len(addrs) > 0 {
		if name := addrs[0].FormattedAddress; name != "" {
			res.ResolvedName = name
		}
	}

	return res, nil
}

// parseQuery splits "City, Region, Country" style input into the address
// fields the geocoding API expects. Anything without commas is a city.
func parseQuery(q string) geocoder.Address {
	parts := strings.Split(q, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	addr := geocoder.Address{City: parts[0]}
	if len(parts) > 1 {
		addr.State = parts[1]
	}
	if len(parts) > 2 {
		addr.Country = parts[2]
	}
	return addr
}
