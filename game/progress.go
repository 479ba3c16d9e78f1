package game

import (
	"math"
	"time"

	"github.com/samber/lo"
)

// Percent returns how far into a track the given position is, in [0, 100].
// An unknown or zero length yields 0.
func Percent(position, length time.Duration) float64 {
	if length <= 0 {
		return 0
	}
	p := float64(position) * 100 / float64(length)
	if math.IsNaN(p) {
		return 0
	}
	return lo.Clamp(p, 0, 100)
}
