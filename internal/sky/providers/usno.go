package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sarmeyer/solstice-sky-viewer/internal/sky"
	"github.com/sony/gobreaker"
)

// dateRe gates the request date before any network call is made.
var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// USNOProvider implements sky.Provider against the US Naval Observatory
// astronomical applications API. The one-day rise/set payload is the primary
// source; tomorrow's sunrise and the celestial-navigation snapshot are
// fetched best-effort and only narrow the output when they fail.
type USNOProvider struct {
	name    string
	baseURL string
	client  *http.Client
	catalog sky.Catalog

	onedayCB *gobreaker.CircuitBreaker
	celnavCB *gobreaker.CircuitBreaker

	// now is injectable so visibility classification is testable.
	now func() time.Time
}

func NewUSNOProvider(client *http.Client, baseURL string, catalog sky.Catalog) *USNOProvider {
	onedayCB := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "usno-oneday",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	celnavCB := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "usno-celnav",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &USNOProvider{
		name:     "usno",
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		catalog:  catalog,
		onedayCB: onedayCB,
		celnavCB: celnavCB,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (p *USNOProvider) Name() string {
	return p.name
}

// SkyObjects fetches and maps tonight's objects for the given coordinates
// and date. Output order is celestial-navigation bodies (payload order after
// filtering), then Sun, then Moon.
func (p *USNOProvider) SkyObjects(ctx context.Context, lat, lon float64, date string) ([]sky.SkyObject, error) {
	if !dateRe.MatchString(date) {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	tomorrow := day.AddDate(0, 0, 1).Format("2006-01-02")
	now := p.now()

	// The three fetches land in disjoint variables, so they can run
	// concurrently without coordination beyond the WaitGroup.
	var (
		wg       sync.WaitGroup
		today    *onedayPayload
		todayErr error
		next     *onedayPayload
		bodies   []celnavBody
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		today, todayErr = p.fetchOneDay(ctx, lat, lon, date)
	}()
	go func() {
		defer wg.Done()
		payload, err := p.fetchOneDay(ctx, lat, lon, tomorrow)
		if err != nil {
			log.Printf("usno: next-day rise/set fetch failed (degrading): %v", err)
			return
		}
		next = payload
	}()
	go func() {
		defer wg.Done()
		bodies = p.fetchCelNav(ctx, lat, lon, date, now)
	}()
	wg.Wait()

	if todayErr != nil {
		return nil, fmt.Errorf("usno one-day fetch for %s: %w", date, todayErr)
	}

	objects := p.mapCelNav(bodies, now)
	if sun, ok := p.mapSun(today, next, date, tomorrow, now); ok {
		objects = append(objects, sun)
	}
	if moon, ok := p.mapMoon(today, date, now); ok {
		objects = append(objects, moon)
	}
	return objects, nil
}

// onedayPayload mirrors the rstt/oneday response shape we consume.
type onedayPayload struct {
	Properties struct {
		Data struct {
			SunData   []phenEvent `json:"sundata"`
			MoonData  []phenEvent `json:"moondata"`
			CurPhase  string      `json:"curphase"`
			Fracillum string      `json:"fracillum"`
		} `json:"data"`
	} `json:"properties"`
}

// phenEvent is one phenomenon-labeled timestamp ("Rise", "Set", ...).
type phenEvent struct {
	Phen string `json:"phen"`
	Time string `json:"time"` // "HH:MM"
}

// celnavBody is one instantaneous-altitude entry from the celnav feed.
type celnavBody struct {
	Object      string `json:"object"`
	StarNumber  *int   `json:"star_number"`
	AlmanacData struct {
		Hc float64 `json:"hc"` // altitude, degrees
	} `json:"almanac_data"`
}

type celnavPayload struct {
	Properties struct {
		Data []celnavBody `json:"data"`
	} `json:"properties"`
}

func (p *USNOProvider) fetchOneDay(ctx context.Context, lat, lon float64, date string) (*onedayPayload, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("date", date)
		values.Set("coords", fmt.Sprintf("%.4f,%.4f", lat, lon))

		u := fmt.Sprintf("%s/rstt/oneday?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.onedayCB, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload onedayPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode one-day payload: %w", err)
	}
	return &payload, nil
}

// fetchCelNav is best-effort: any failure degrades to "no data" so the
// caller cannot accidentally propagate it.
func (p *USNOProvider) fetchCelNav(ctx context.Context, lat, lon float64, date string, now time.Time) []celnavBody {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("date", date)
		values.Set("time", now.Format("15:04:05"))
		values.Set("coords", fmt.Sprintf("%.4f,%.4f", lat, lon))

		u := fmt.Sprintf("%s/celnav?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.celnavCB, buildRequest)
	if err != nil {
		log.Printf("usno: celnav fetch failed (degrading): %v", err)
		return nil
	}
	defer resp.Body.Close()

	var payload celnavPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("usno: celnav decode failed (degrading): %v", err)
		return nil
	}
	return payload.Properties.Data
}

// mapCelNav filters the celnav bodies through the catalog allow-list and
// maps each survivor into a SkyObject with an estimated rise/set window.
func (p *USNOProvider) mapCelNav(bodies []celnavBody, now time.Time) []sky.SkyObject {
	var objects []sky.SkyObject
	for _, b := range bodies {
		name := strings.TrimSpace(b.Object)
		// Sun and Moon come from the one-day payload with real event times.
		if strings.EqualFold(name, "Sun") || strings.EqualFold(name, "Moon") {
			continue
		}
		if !p.catalog.Allows(name) {
			continue
		}

		alt := b.AlmanacData.Hc
		vis := sky.AltitudeVisibility(alt)
		rise, set := sky.EstimateWindow(now, alt > 0)

		typ := sky.TypeOther
		switch {
		case p.catalog.IsPlanet(name):
			typ = sky.TypePlanet
		case b.StarNumber != nil:
			typ = sky.TypeStar
		}

		var note string
		switch vis {
		case sky.VisibilityGood:
			note = fmt.Sprintf("%s is high in the sky right now (altitude %.0f°).", name, alt)
		case sky.VisibilityOK:
			note = fmt.Sprintf("%s sits low over the horizon (altitude %.0f°).", name, alt)
		default:
			note = fmt.Sprintf("%s is below the horizon right now.", name)
		}

		objects = append(objects, sky.SkyObject{
			ID:         sky.Slug(name),
			Name:       name,
			Type:       typ,
			Visibility: vis,
			RiseTime:   rise,
			SetTime:    set,
			Note:       note,
		})
	}
	return objects
}

// mapSun builds the Sun object from today's events; the next-day payload,
// when available, supplies the next sunrise for visibility classification.
func (p *USNOProvider) mapSun(today, next *onedayPayload, date, tomorrow string, now time.Time) (sky.SkyObject, bool) {
	riseRaw, okRise := phenTime(today.Properties.Data.SunData, "Rise")
	setRaw, okSet := phenTime(today.Properties.Data.SunData, "Set")
	if !okRise || !okSet {
		return sky.SkyObject{}, false
	}

	riseISO := sky.TimeToISO(date, riseRaw)
	setISO := sky.TimeToISO(date, setRaw)

	sunset, err := sky.ParseISO(setISO)
	if err != nil {
		return sky.SkyObject{}, false
	}

	var nextSunrise *time.Time
	if next != nil {
		if t, ok := phenTime(next.Properties.Data.SunData, "Rise"); ok {
			if ts, err := sky.ParseISO(sky.TimeToISO(tomorrow, t)); err == nil {
				nextSunrise = &ts
			}
		}
	}

	return sky.SkyObject{
		ID:         "sun",
		Name:       "Sun",
		Type:       sky.TypeStar,
		Visibility: sky.SunVisibility(now, sunset, nextSunrise),
		RiseTime:   riseISO,
		SetTime:    setISO,
		Note:       fmt.Sprintf("Sunrise at %s, sunset at %s.", sky.FormatTime(riseISO), sky.FormatTime(setISO)),
	}, true
}

// mapMoon builds the Moon object when the payload carries both events. A
// moonset whose clock time precedes moonrise's happened after midnight, so
// its date rolls forward one day.
func (p *USNOProvider) mapMoon(today *onedayPayload, date string, now time.Time) (sky.SkyObject, bool) {
	riseRaw, okRise := phenTime(today.Properties.Data.MoonData, "Rise")
	setRaw, okSet := phenTime(today.Properties.Data.MoonData, "Set")
	if !okRise || !okSet {
		return sky.SkyObject{}, false
	}

	setDate := date
	if setRaw < riseRaw { // zero-padded HH:MM compares lexically
		if d, err := time.Parse("2006-01-02", date); err == nil {
			setDate = d.AddDate(0, 0, 1).Format("2006-01-02")
		}
	}

	riseISO := sky.TimeToISO(date, riseRaw)
	setISO := sky.TimeToISO(setDate, setRaw)

	riseT, errRise := sky.ParseISO(riseISO)
	setT, errSet := sky.ParseISO(setISO)
	if errRise != nil || errSet != nil {
		return sky.SkyObject{}, false
	}

	note := fmt.Sprintf("Moonrise at %s, moonset at %s.", sky.FormatTime(riseISO), sky.FormatTime(setISO))
	if phase := today.Properties.Data.CurPhase; phase != "" {
		note += " " + phase
		if frac := today.Properties.Data.Fracillum; frac != "" {
			note += fmt.Sprintf(", %s illuminated", frac)
		}
		note += "."
	}

	return sky.SkyObject{
		ID:         "moon",
		Name:       "Moon",
		Type:       sky.TypeOther,
		Visibility: sky.MoonVisibility(now, riseT, setT),
		RiseTime:   riseISO,
		SetTime:    setISO,
		Note:       note,
	}, true
}

// phenTime extracts the timestamp for a phenomenon label, case-insensitively.
func phenTime(events []phenEvent, label string) (string, bool) {
	for _, e := range events {
		if strings.EqualFold(e.Phen, label) {
			return e.Time, true
		}
	}
	return "", false
}
