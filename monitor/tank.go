package monitor

import "math"

// Percent returns the fill level in percent of a tank whose sensor is
// installed radarHeightCm above the bottom, clamped to 0..100.
func Percent(levelMM uint16, radarHeightCm int) int {
	if radarHeightCm <= 0 {
		return 0
	}
	p := math.Round(float64(levelMM) * 100 / float64(radarHeightCm*10))
	return int(math.Max(0, math.Min(100, p)))
}

// Gallons returns the volume held at percent of capacity.
func Gallons(percent, capacity int) int {
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}
	return capacity * percent / 100
}
