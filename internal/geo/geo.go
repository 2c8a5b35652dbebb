package geo

import (
	"errors"
	"math"
	"sort"
)

const (
	EarthRadiusKm = 6371.0

	// DegreesPerKm is the pre-filter box half-width per km of radius.
	DegreesPerKm = 0.01
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

type Point struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return ErrInvalidCoordinates
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// Distance returns the great-circle distance in kilometers (Haversine).
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// rounding can push h just past 1 for antipodal points
	if h > 1 {
		h = 1
	}

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// BoundsAround returns the coarse search box for a radius. It does not wrap
// at the antimeridian or the poles.
func BoundsAround(center Point, radiusKm float64) Bounds {
	delta := radiusKm * DegreesPerKm
	return Bounds{
		MinLat: center.Lat - delta,
		MaxLat: center.Lat + delta,
		MinLng: center.Lng - delta,
		MaxLng: center.Lng + delta,
	}
}

func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Locatable is anything with a position on the map.
type Locatable interface {
	Location() Point
}

type Hit[T Locatable] struct {
	Item       T
	DistanceKm float64
}

// Within keeps the items whose Haversine distance to center is at most
// radiusKm, nearest first. Items outside the bounding box are never measured.
func Within[T Locatable](center Point, radiusKm float64, items []T) []Hit[T] {
	if radiusKm < 0 {
		return nil
	}

	box := BoundsAround(center, radiusKm)
	hits := make([]Hit[T], 0, len(items))

	for _, item := range items {
		loc := item.Location()
		if !box.Contains(loc) {
			continue
		}
		d := Distance(center, loc)
		if d > radiusKm {
			continue
		}
		hits = append(hits, Hit[T]{Item: item, DistanceKm: d})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].DistanceKm < hits[j].DistanceKm
	})

	return hits
}
