package sky

import "time"

const isoLayout = "2006-01-02T15:04:05Z"

// TimeToISO joins a YYYY-MM-DD calendar date with an upstream "HH:MM"
// time-of-day into a UTC-qualified ISO datetime. No timezone conversion
// happens here; the upstream time is presented as-is.
func TimeToISO(date, hhmm string) string {
	return date + "T" + hhmm + ":00Z"
}

// FormatTime reduces an ISO datetime to a display "HH:MM". Malformed input
// is returned unchanged rather than failing.
func FormatTime(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Format("15:04")
}

// ParseISO parses a datetime produced by TimeToISO.
func ParseISO(iso string) (time.Time, error) {
	return time.Parse(time.RFC3339, iso)
}

// EstimateWindow guesses a rise/set window for a body whose source only
// reports instantaneous altitude. Above the horizon we assume it rose six
// hours ago and sets six hours from now; below, that it rises in six hours
// and sets twelve hours after that. Day boundaries roll over naturally.
func EstimateWindow(now time.Time, aboveHorizon bool) (rise, set string) {
	if aboveHorizon {
		return now.Add(-6 * time.Hour).UTC().Format(isoLayout),
			now.Add(6 * time.Hour).UTC().Format(isoLayout)
	}
	return now.Add(6 * time.Hour).UTC().Format(isoLayout),
		now.Add(18 * time.Hour).UTC().Format(isoLayout)
}
