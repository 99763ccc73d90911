package sky

// ObjectType classifies a sky object for the front-end.
type ObjectType string

const (
	TypeStar          ObjectType = "star"
	TypePlanet        ObjectType = "planet"
	TypeConstellation ObjectType = "constellation"
	TypeOther         ObjectType = "other"
)

// Visibility is the three-level classification shown to the user.
type Visibility string

const (
	VisibilityGood Visibility = "good"
	VisibilityOK   Visibility = "ok"
	VisibilityPoor Visibility = "poor"
)

// Location is the resolved form of the user's free-text location query.
// Query is the verbatim input; ResolvedName and coordinates come from the
// geocoding collaborator.
type Location struct {
	Query        string  `json:"query"`
	ResolvedName string  `json:"resolvedName"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
}

// SkyObject is the normalized view of one visible body for tonight.
// RiseTime and SetTime are ISO-8601 datetimes; when a set event falls past
// midnight its date component reflects the following calendar day.
type SkyObject struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       ObjectType `json:"type"`
	Visibility Visibility `json:"visibility"`
	RiseTime   string     `json:"riseTime"`
	SetTime    string     `json:"setTime"`
	Magnitude  *float64   `json:"magnitude,omitempty"`
	Note       string     `json:"note"`
}

// SkyObjectsResponse is the success payload of the sky objects endpoint.
// It is assembled fresh for every request and never persisted.
type SkyObjectsResponse struct {
	Location Location    `json:"location"`
	Date     string      `json:"date"` // YYYY-MM-DD, UTC
	Objects  []SkyObject `json:"objects"`
}
