package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type place struct {
	name string
	at   Point
}

func (p place) Location() Point { return p.at }

var bangkok = Point{Lat: 13.7563, Lng: 100.5018}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]Point{
		{bangkok, {Lat: 13.7460, Lng: 100.5340}},
		{{Lat: 51.5074, Lng: -0.1278}, {Lat: 48.8566, Lng: 2.3522}},
		{{Lat: -33.8688, Lng: 151.2093}, {Lat: 35.6762, Lng: 139.6503}},
		{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 0}},
	}

	for _, p := range pairs {
		assert.Equal(t, Distance(p[0], p[1]), Distance(p[1], p[0]))
	}
}

func TestDistance_KnownValue(t *testing.T) {
	london := Point{Lat: 51.5074, Lng: -0.1278}
	paris := Point{Lat: 48.8566, Lng: 2.3522}

	assert.InDelta(t, 343.5, Distance(london, paris), 1.0)
	assert.Zero(t, Distance(london, london))
}

func TestWithin_ReturnsNearbySortedByDistance(t *testing.T) {
	items := []place{
		{"far-ish", Point{Lat: 13.7620, Lng: 100.5050}},
		{"closest", Point{Lat: 13.7565, Lng: 100.5020}},
		{"middle", Point{Lat: 13.7590, Lng: 100.5030}},
	}

	hits := Within(bangkok, 5, items)
	require.Len(t, hits, 3)

	assert.Equal(t, "closest", hits[0].Item.name)
	assert.Equal(t, "middle", hits[1].Item.name)
	assert.Equal(t, "far-ish", hits[2].Item.name)

	for i, h := range hits {
		assert.LessOrEqual(t, h.DistanceKm, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, h.DistanceKm, hits[i-1].DistanceKm)
		}
	}
}

func TestWithin_ExcludesOutsideRadius(t *testing.T) {
	items := []place{
		{"inside", Point{Lat: 13.7600, Lng: 100.5018}},
		// inside the pre-filter box but beyond 2km on the diagonal
		{"corner", Point{Lat: 13.7563 + 0.0195, Lng: 100.5018 + 0.0195}},
		{"elsewhere", Point{Lat: 18.7883, Lng: 98.9853}},
	}

	hits := Within(bangkok, 2, items)
	require.Len(t, hits, 1)
	assert.Equal(t, "inside", hits[0].Item.name)

	for _, it := range items {
		if Distance(bangkok, it.at) > 2 {
			for _, h := range hits {
				assert.NotEqual(t, it.name, h.Item.name)
			}
		}
	}
}

func TestWithin_ZeroRadiusKeepsOnlyCoincident(t *testing.T) {
	items := []place{
		{"same", bangkok},
		{"next door", Point{Lat: 13.7564, Lng: 100.5018}},
	}

	hits := Within(bangkok, 0, items)
	require.Len(t, hits, 1)
	assert.Equal(t, "same", hits[0].Item.name)
	assert.Zero(t, hits[0].DistanceKm)
}

func TestWithin_NegativeRadius(t *testing.T) {
	assert.Empty(t, Within(bangkok, -1, []place{{"same", bangkok}}))
}

func TestPointValidate(t *testing.T) {
	assert.NoError(t, bangkok.Validate())
	assert.NoError(t, Point{Lat: -90, Lng: 180}.Validate())
	assert.ErrorIs(t, Point{Lat: 90.1, Lng: 0}.Validate(), ErrInvalidCoordinates)
	assert.ErrorIs(t, Point{Lat: 0, Lng: -180.5}.Validate(), ErrInvalidCoordinates)
}
