package docschema

// Location is a geocoordinate with an optional name.
type Location struct {
	Name string  `json:"name,omitempty"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

// NewLocation returns an unnamed location.
func NewLocation(lon, lat float64) Location {
	return Location{Lon: lon, Lat: lat}
}

// HasCoordinates reports whether the location is usable. A zero on either
// axis means the coordinate was never set, so points on the equator or the
// prime meridian count as absent.
func (l Location) HasCoordinates() bool {
	return l.Lon != 0 && l.Lat != 0
}
