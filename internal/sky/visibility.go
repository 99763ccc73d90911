package sky

import "time"

// SunVisibility classifies the Sun for the current instant. After sunset,
// and until the next sunrise when one is known, the Sun is poor; otherwise
// good. The Sun never classifies as "ok".
func SunVisibility(now, sunset time.Time, nextSunrise *time.Time) Visibility {
	if now.After(sunset) && (nextSunrise == nil || now.Before(*nextSunrise)) {
		return VisibilityPoor
	}
	return VisibilityGood
}

// MoonVisibility is good iff now falls in the half-open [rise, set) window.
// Callers must have already rolled a past-midnight set time to the next
// calendar day, so rise < set always holds here.
func MoonVisibility(now, rise, set time.Time) Visibility {
	if !now.Before(rise) && now.Before(set) {
		return VisibilityGood
	}
	return VisibilityPoor
}

// AltitudeVisibility classifies a body by its angular height above the
// horizon: above 30° good, above the horizon but at most 30° ok, at or
// below the horizon poor.
func AltitudeVisibility(altitudeDeg float64) Visibility {
	switch {
	case altitudeDeg > 30:
		return VisibilityGood
	case altitudeDeg > 0:
		return VisibilityOK
	default:
		return VisibilityPoor
	}
}
