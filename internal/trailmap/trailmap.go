// Package trailmap builds the marker list and selection state of the trail
// map page.
package trailmap

import (
	"errors"
	"fmt"

	"github.com/joestump/trail-mix/internal/store"
)

// DefaultZoom is the zoom level the map opens at.
const DefaultZoom = 12

// Default center, used when no override is configured.
const (
	DefaultLat = 30.33735
	DefaultLng = -90.03733
)

// ErrUnknownTrail is returned when selecting a trail that has no marker.
var ErrUnknownTrail = errors.New("trailmap: unknown trail")

// Marker is one pin on the map.
type Marker struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Center is a map coordinate.
type Center struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Markers converts trails into map markers, preserving order.
func Markers(trails []*store.Trail) []Marker {
	markers := make([]Marker, 0, len(trails))
	for _, t := range trails {
		if t == nil {
			continue
		}
		markers = append(markers, Marker{ID: t.ID, Lat: t.Lat, Lng: t.Lng})
	}
	return markers
}

// View is the state of one rendered map: its markers and at most one
// selected trail whose info window is open.
type View struct {
	Center   Center
	Zoom     int
	Markers  []Marker
	Selected *Marker
}

// NewView returns a View centered on center. A zero center falls back to
// the default one.
func NewView(markers []Marker, center Center) *View {
	if center == (Center{}) {
		center = Center{Lat: DefaultLat, Lng: DefaultLng}
	}
	return &View{Center: center, Zoom: DefaultZoom, Markers: markers}
}

// Select opens the info window of trail id.
func (v *View) Select(id int64) (Marker, error) {
	for i := range v.Markers {
		if v.Markers[i].ID == id {
			m := v.Markers[i]
			v.Selected = &m
			return m, nil
		}
	}
	return Marker{}, fmt.Errorf("%w: %d", ErrUnknownTrail, id)
}

// Dismiss closes the open info window, if any.
func (v *View) Dismiss() {
	v.Selected = nil
}
