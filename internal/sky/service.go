package sky

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sarmeyer/solstice-sky-viewer/internal/geo"
)

// Service assembles the sky objects response: validate the query, geocode,
// fetch and map astronomy data, and fold every failure into the flat error
// taxonomy. One pass per request, no retries, nothing shared across calls.
type Service struct {
	geocoder geo.Geocoder
	provider Provider

	now func() time.Time
}

func NewService(geocoder geo.Geocoder, provider Provider) *Service {
	return &Service{
		geocoder: geocoder,
		provider: provider,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SkyObjects handles one request. Every error it returns is a *Error.
func (s *Service) SkyObjects(ctx context.Context, location string) (*SkyObjectsResponse, error) {
	query := strings.TrimSpace(location)
	if query == "" {
		return nil, &Error{
			Code:    CodeInvalidLocation,
			Status:  400,
			Message: "location must be a non-blank string",
		}
	}

	resolved, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		return nil, &Error{
			Code:    CodeInvalidLocation,
			Status:  400,
			Message: fmt.Sprintf("could not resolve location %q: %v", query, err),
		}
	}

	date := s.now().Format("2006-01-02")

	objects, err := s.provider.SkyObjects(ctx, resolved.Lat, resolved.Lon, date)
	if err != nil {
		log.Printf("sky: %s fetch failed for %q: %v", s.provider.Name(), query, err)
		return nil, &Error{
			Code:    CodeUpstreamError,
			Status:  500,
			Message: "astronomy data fetch failed: " + err.Error(),
		}
	}

	// An empty mapped list is a failure, not a valid empty success.
	if len(objects) == 0 {
		return nil, &Error{
			Code:    CodeUpstreamError,
			Status:  500,
			Message: "no astronomy data available",
		}
	}

	return &SkyObjectsResponse{
		Location: Location{
			Query:        query,
			ResolvedName: resolved.ResolvedName,
			Lat:          resolved.Lat,
			Lon:          resolved.Lon,
		},
		Date:    date,
		Objects: objects,
	}, nil
}
