// SPDX-License-Identifier: MPL-2.0

package frecency

import (
	"math"
	"time"
)

// HalfLife is the duration over which an activation's contribution to the
// score decays by half.
const HalfLife = 30 * 24 * time.Hour

// Score computes activationCount * 2^(-Δt/halfLife), where Δt is the time
// elapsed since lastActivatedAt. An environment with no recorded activation
// scores 0.
func Score(activationCount int, lastActivatedAt *time.Time, now time.Time) float64 {
	if lastActivatedAt == nil || activationCount <= 0 {
		return 0
	}

	elapsed := now.Sub(*lastActivatedAt)
	decay := math.Pow(2, -float64(elapsed)/float64(HalfLife))
	return float64(activationCount) * decay
}
