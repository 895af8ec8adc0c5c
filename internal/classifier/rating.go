
package classifier

import (
	"math"

	"safesearch-analyzer/internal/models"
)

const (
	maxScore      = 10.0
	penaltyFactor = 20.0
)

// Rate turns word tallies into a 0-10 safety score and its label. A page with
// no countable words gets a full score and the Unknown label.
func Rate(bad, total int) (float64, string) {
	if total == 0 {
		return maxScore, models.RatingUnknown
	}
	ratio := float64(bad) / float64(total)
	score := math.Max(0, maxScore-ratio*penaltyFactor)
	return score, Label(score)
}

// Label buckets a score; each band includes its lower bound.
func Label(score float64) string {
	switch {
	case score >= 9:
		return models.RatingVerySafe
	case score >= 7:
		return models.RatingSafe
	case score >= 5:
		return models.RatingModerate
	case score >= 3:
		return models.RatingUnsafe
	default:
		return models.RatingVeryUnsafe
	}
}
