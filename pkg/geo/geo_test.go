package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMiles(t *testing.T) {
	nyc := Coordinate{Latitude: 40.7128, Longitude: -74.0060}
	la := Coordinate{Latitude: 34.0522, Longitude: -118.2437}

	// Great-circle NYC to LA is roughly 2445 miles.
	assert.InDelta(t, 2445, HaversineMiles(nyc, la), 15)
	assert.Zero(t, HaversineMiles(nyc, nyc))
	assert.InDelta(t, HaversineMiles(nyc, la), HaversineMiles(la, nyc), 1e-9)
}
