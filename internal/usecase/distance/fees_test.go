package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeForDistance(t *testing.T) {
	tests := []struct {
		name       string
		km         float64
		wantFee    float64
		wantReview bool
	}{
		{"at hub", 0, 0, false},
		{"inside free band", 15.9, 0, false},
		{"flat band start", 16, 30, false},
		{"flat band end", 23.9, 30, false},
		{"dynamic band start", 24, 30, false},
		{"dynamic band middle", 30, 40, false},
		{"dynamic band rounds to nearest five", 36, 45, false},
		{"dynamic band clamped at ceiling", 39.9, 50, false},
		{"far band start", 40, 50, false},
		{"far band end", 59.9, 50, false},
		{"review threshold", 60, 50, true},
		{"well beyond review threshold", 120, 50, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, review := FeeForDistance(tt.km)
			assert.Equal(t, tt.wantFee, fee)
			assert.Equal(t, tt.wantReview, review)
		})
	}
}

func TestFeeForDistanceDynamicBandBounds(t *testing.T) {
	// Every fee in the dynamic band must land on a multiple of five inside
	// the clamp range.
	for km := 24.0; km < 40.0; km += 0.5 {
		fee, review := FeeForDistance(km)
		assert.False(t, review)
		assert.GreaterOrEqual(t, fee, 30.0, "km=%v", km)
		assert.LessOrEqual(t, fee, 50.0, "km=%v", km)
		assert.Zero(t, int(fee)%5, "km=%v fee=%v", km, fee)
	}
}

func TestRequiredProfit(t *testing.T) {
	tests := []struct {
		km   float64
		want float64
	}{
		{5, 30},
		{15.9, 30},
		{16, 40},
		{23.9, 40},
		{24, 50},
		{39.9, 50},
		{40, 60},
		{80, 60},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RequiredProfit(tt.km), "km=%v", tt.km)
	}
}
