package shared

// ScoreBucket labels a band of a 0-100 score. Audit risk scores and
// purchase-request urgency scores project through this one mapping so
// the same underlying value never renders under two different labels.
type ScoreBucket string

const (
	ScoreBucketCritical ScoreBucket = "Critical"
	ScoreBucketHigh     ScoreBucket = "High"
	ScoreBucketMedium   ScoreBucket = "Medium"
	ScoreBucketLow      ScoreBucket = "Low"
)

// BucketForScore maps a 0-100 score to its bucket.
// Boundaries are inclusive on the upper bucket: 80 is Critical, 79 is High.
func BucketForScore(score int) ScoreBucket {
	switch {
	case score >= 80:
		return ScoreBucketCritical
	case score >= 60:
		return ScoreBucketHigh
	case score >= 40:
		return ScoreBucketMedium
	default:
		return ScoreBucketLow
	}
}
