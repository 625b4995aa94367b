package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSI_TooShortInput(t *testing.T) {
	assert.Empty(t, RSI(nil, 14))
	assert.Empty(t, RSI([]float64{44000}, 14))

	// period+1 values is the minimum; one fewer yields nothing
	prices := make([]float64, 14)
	for i := range prices {
		prices[i] = 44000 + float64(i)
	}
	assert.Empty(t, RSI(prices, 14))

	_, ok := LastRSI(prices, 14)
	assert.False(t, ok)
}

func TestRSI_OutputLength(t *testing.T) {
	prices := make([]float64, 100)
	for i := range prices {
		prices[i] = 44000 + float64(i%7)
	}
	assert.Len(t, RSI(prices, 14), 86)
	assert.Len(t, RSI(prices, 10), 90)
}

func TestRSI_MonotonicSequences(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = 44000 + 50*float64(i)
		down[i] = 50000 - 50*float64(i)
	}

	for _, v := range RSI(up, 14) {
		assert.Equal(t, 100.0, v, "all-gain series saturates the oscillator")
	}
	for _, v := range RSI(down, 14) {
		assert.Equal(t, 0.0, v, "all-loss series pins the oscillator to zero")
	}
}

func TestRSI_SeedArithmeticFixture(t *testing.T) {
	prices := []float64{
		44000, 44500, 44300, 44800, 45000,
		44700, 44900, 45200, 45100, 45400,
		45300, 45600, 45500, 45800, 45700,
	}
	require.Len(t, prices, 15)

	// Manual seed: simple mean of the first 14 deltas, gains and losses split.
	gains := 0.0
	losses := 0.0
	for i := 1; i <= 14; i++ {
		diff := prices[i] - prices[i-1]
		if diff > 0 {
			gains += diff
		} else {
			losses -= diff
		}
	}
	avgGain := gains / 14
	avgLoss := losses / 14
	want := 100 - (100 / (1 + avgGain/avgLoss))

	got := RSI(prices, 14)
	require.Len(t, got, 1)
	assert.Equal(t, want, got[0], "seed value must match the arithmetic bit for bit")
}

func TestRSI_SmoothedContinuation(t *testing.T) {
	prices := []float64{
		44000, 44500, 44300, 44800, 45000,
		44700, 44900, 45200, 45100, 45400,
		45300, 45600, 45500, 45800, 45700,
		46000,
	}

	gains := 0.0
	losses := 0.0
	for i := 1; i <= 14; i++ {
		diff := prices[i] - prices[i-1]
		if diff > 0 {
			gains += diff
		} else {
			losses -= diff
		}
	}
	avgGain := gains / 14
	avgLoss := losses / 14

	// 16th price: smoothed blend of the running averages.
	diff := prices[15] - prices[14]
	avgGain = (avgGain*13 + diff) / 14
	avgLoss = (avgLoss * 13) / 14
	want := 100 - (100 / (1 + avgGain/avgLoss))

	got := RSI(prices, 14)
	require.Len(t, got, 2)
	assert.Equal(t, want, got[1])

	last, ok := LastRSI(prices, 14)
	require.True(t, ok)
	assert.Equal(t, want, last)
}

func TestSMA_WarmupIsNaNFree(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	sma := SMA(prices, 3)
	require.Len(t, sma, len(prices))
	assert.InDelta(t, 9.0, sma[len(sma)-1], 1e-9)
}
