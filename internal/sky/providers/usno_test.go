package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sarmeyer/solstice-sky-viewer/internal/sky"
)

const todayPayload = `{
	"properties": {"data": {
		"sundata": [
			{"phen": "Rise", "time": "06:34"},
			{"phen": "Upper Transit", "time": "11:08"},
			{"phen": "Set", "time": "15:42"}
		],
		"moondata": [
			{"phen": "Rise", "time": "08:00"},
			{"phen": "Set", "time": "02:00"}
		],
		"curphase": "Waxing Gibbous",
		"fracillum": "78%"
	}}
}`

const tomorrowPayload = `{
	"properties": {"data": {
		"sundata": [
			{"phen": "Rise", "time": "06:35"},
			{"phen": "Set", "time": "15:41"}
		]
	}}
}`

const celnavTestPayload = `{
	"properties": {"data": [
		{"object": "Venus", "almanac_data": {"hc": 34.2}},
		{"object": "Vega", "star_number": 49, "almanac_data": {"hc": 12.0}},
		{"object": "Sun", "almanac_data": {"hc": 20.0}},
		{"object": "Mystery Object", "almanac_data": {"hc": 50.0}}
	]}
}`

// newTestProvider points a provider at a stub USNO and pins "now" to
// 2026-08-26T10:00:00Z.
func newTestProvider(t *testing.T, handler http.HandlerFunc) (*USNOProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewUSNOProvider(srv.Client(), srv.URL, sky.DefaultCatalog())
	p.now = func() time.Time {
		return time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	}
	return p, srv
}

func stubUSNO(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/rstt/oneday"):
			if r.URL.Query().Get("date") == "2026-08-27" {
				w.Write([]byte(tomorrowPayload))
				return
			}
			w.Write([]byte(todayPayload))
		case strings.HasPrefix(r.URL.Path, "/celnav"):
			w.Write([]byte(celnavTestPayload))
		default:
			http.NotFound(w, r)
		}
	}
}

func TestSkyObjectsMapping(t *testing.T) {
	p, _ := newTestProvider(t, stubUSNO(t))

	objects, err := p.SkyObjects(context.Background(), 39.7392, -104.9903, "2026-08-26")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Celnav bodies first (payload order, filtered), then Sun, then Moon.
	wantIDs := []string{"venus", "vega", "sun", "moon"}
	if len(objects) != len(wantIDs) {
		t.Fatalf("expected %d objects, got %d: %+v", len(wantIDs), len(objects), objects)
	}
	for i, id := range wantIDs {
		if objects[i].ID != id {
			t.Fatalf("object %d: expected id %q, got %q", i, id, objects[i].ID)
		}
	}

	venus := objects[0]
	if venus.Type != sky.TypePlanet || venus.Visibility != sky.VisibilityGood {
		t.Fatalf("venus: expected planet/good, got %s/%s", venus.Type, venus.Visibility)
	}
	// Above horizon at 10:00: estimated window is 04:00 to 16:00.
	if venus.RiseTime != "2026-08-26T04:00:00Z" || venus.SetTime != "2026-08-26T16:00:00Z" {
		t.Fatalf("venus window: got rise=%q set=%q", venus.RiseTime, venus.SetTime)
	}

	vega := objects[1]
	if vega.Type != sky.TypeStar || vega.Visibility != sky.VisibilityOK {
		t.Fatalf("vega: expected star/ok, got %s/%s", vega.Type, vega.Visibility)
	}

	sun := objects[2]
	if sun.Type != sky.TypeStar {
		t.Fatalf("sun: expected type star, got %s", sun.Type)
	}
	if sun.RiseTime != "2026-08-26T06:34:00Z" || sun.SetTime != "2026-08-26T15:42:00Z" {
		t.Fatalf("sun: got rise=%q set=%q", sun.RiseTime, sun.SetTime)
	}
	// 10:00 is before sunset, so the Sun is up.
	if sun.Visibility != sky.VisibilityGood {
		t.Fatalf("sun: expected good, got %s", sun.Visibility)
	}
}

func TestMoonsetRollsToNextDay(t *testing.T) {
	p, _ := newTestProvider(t, stubUSNO(t))

	objects, err := p.SkyObjects(context.Background(), 39.7392, -104.9903, "2026-08-26")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	moon := objects[len(objects)-1]
	if moon.ID != "moon" {
		t.Fatalf("expected moon last, got %q", moon.ID)
	}
	if moon.RiseTime != "2026-08-26T08:00:00Z" {
		t.Fatalf("moonrise: got %q", moon.RiseTime)
	}
	// Moonset 02:00 precedes moonrise 08:00, so its date rolls forward.
	if moon.SetTime != "2026-08-27T02:00:00Z" {
		t.Fatalf("moonset: got %q", moon.SetTime)
	}
	// 10:00 falls inside [rise, set).
	if moon.Visibility != sky.VisibilityGood {
		t.Fatalf("moon: expected good, got %s", moon.Visibility)
	}
	if !strings.Contains(moon.Note, "Waxing Gibbous") || !strings.Contains(moon.Note, "78% illuminated") {
		t.Fatalf("moon note missing phase details: %q", moon.Note)
	}
}

func TestInvalidDateRejectedBeforeAnyFetch(t *testing.T) {
	var hits int32
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(todayPayload))
	})

	for _, date := range []string{"", "08/26/2026", "2026-8-26", "20260826"} {
		if _, err := p.SkyObjects(context.Background(), 1, 2, date); err == nil {
			t.Fatalf("date %q: expected error", date)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Fatalf("expected no network calls for invalid dates, got %d", n)
	}
}

func TestPrimaryFetchFailurePropagates(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	if _, err := p.SkyObjects(context.Background(), 1, 2, "2026-08-26"); err == nil {
		t.Fatal("expected error when the one-day fetch fails")
	}
}

func TestCelnavFailureDegradesSilently(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/celnav") {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(todayPayload))
	})

	objects, err := p.SkyObjects(context.Background(), 1, 2, "2026-08-26")
	if err != nil {
		t.Fatalf("celnav failure must not fail the request: %v", err)
	}
	if len(objects) != 2 || objects[0].ID != "sun" || objects[1].ID != "moon" {
		t.Fatalf("expected sun and moon only, got %+v", objects)
	}
}

func TestNextDayFetchFailureDegradesSilently(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/rstt/oneday") && r.URL.Query().Get("date") == "2026-08-27" {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		stubUSNO(t)(w, r)
	})

	objects, err := p.SkyObjects(context.Background(), 1, 2, "2026-08-26")
	if err != nil {
		t.Fatalf("next-day failure must not fail the request: %v", err)
	}

	var sun *sky.SkyObject
	for i := range objects {
		if objects[i].ID == "sun" {
			sun = &objects[i]
		}
	}
	if sun == nil {
		t.Fatal("expected a sun object")
	}
	// Visibility falls back to the no-next-sunrise branch; 10:00 is still
	// before sunset, so the Sun stays good.
	if sun.Visibility != sky.VisibilityGood {
		t.Fatalf("sun: expected good, got %s", sun.Visibility)
	}
}

func TestMissingSunEventsSkipsSun(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/celnav") {
			w.Write([]byte(celnavTestPayload))
			return
		}
		w.Write([]byte(`{"properties":{"data":{"sundata":[{"phen":"Rise","time":"06:34"}]}}}`))
	})

	objects, err := p.SkyObjects(context.Background(), 1, 2, "2026-08-26")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, o := range objects {
		if o.ID == "sun" || o.ID == "moon" {
			t.Fatalf("expected no %s object with partial sun data, got %+v", o.ID, o)
		}
	}
	if len(objects) != 2 {
		t.Fatalf("expected the two celnav objects, got %+v", objects)
	}
}
