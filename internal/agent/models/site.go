package models

// Location is a plain lat/lng pair.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Site is a catalog entry describing a known installation site. Immutable
// from the field side: the local mirror is replaced wholesale on each
// successful refresh, never merged incrementally.
type Site struct {
	ID           string    `json:"id"`
	SiteCode     string    `json:"site_code"`
	SiteType     string    `json:"site_type"`
	Distrito     string    `json:"distrito"`
	Municipio    string    `json:"municipio"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Location     *Location `json:"location,omitempty"`
	CamerasCount int       `json:"cameras_count"`
	Description  string    `json:"description"`
}
