package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketForScore(t *testing.T) {
	tests := []struct {
		score int
		want  ScoreBucket
	}{
		{0, ScoreBucketLow},
		{39, ScoreBucketLow},
		{40, ScoreBucketMedium},
		{59, ScoreBucketMedium},
		{60, ScoreBucketHigh},
		{79, ScoreBucketHigh},
		{80, ScoreBucketCritical},
		{100, ScoreBucketCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketForScore(tt.score), "score %d", tt.score)
	}
}

func TestScoreBucketLabels(t *testing.T) {
	assert.Equal(t, "Critical", string(ScoreBucketCritical))
	assert.Equal(t, "High", string(ScoreBucketHigh))
	assert.Equal(t, "Medium", string(ScoreBucketMedium))
	assert.Equal(t, "Low", string(ScoreBucketLow))
}
