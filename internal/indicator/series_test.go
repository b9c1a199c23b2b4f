package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMASeries(t *testing.T) {
	got := smaSeries([]float64{1, 2, 3, 4, 5}, 3)
	assert.Equal(t, []float64{0, 0, 2, 3, 4}, got)
}

func TestSMASeriesShortInput(t *testing.T) {
	got := smaSeries([]float64{1, 2}, 3)
	assert.Equal(t, []float64{0, 0}, got)
}

func TestEMASeries(t *testing.T) {
	// window 3 → alpha 0.5, seed = SMA(1,2,3) = 2
	got := emaSeries([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, got, 5)
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 0.0, got[1])
	assert.InDelta(t, 2.0, got[2], 1e-9)
	assert.InDelta(t, 3.0, got[3], 1e-9)
	assert.InDelta(t, 4.0, got[4], 1e-9)
}

func TestRSISeriesAllGains(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5, 6, 7}
	got := rsiSeries(closes, 3)
	assert.Equal(t, 0.0, got[2])
	for i := 3; i < len(got); i++ {
		assert.InDelta(t, 100.0, got[i], 1e-9)
	}
}

func TestRSISeriesWilderSmoothing(t *testing.T) {
	// changes: +1, -1, +2, +3
	closes := []float64{10, 11, 10, 12, 13}
	got := rsiSeries(closes, 3)

	// avgGain=1, avgLoss=1/3 → RS=3 → RSI=75
	assert.InDelta(t, 75.0, got[3], 1e-9)
	// avgGain=(1*2+3)/3, avgLoss=(1/3*2)/3 → RSI≈88.2353
	assert.InDelta(t, 88.235294, got[4], 1e-4)
}

func TestOBVSeries(t *testing.T) {
	closes := []float64{10, 11, 11, 10}
	volumes := []float64{100, 50, 30, 20}
	got := obvSeries(closes, volumes)
	assert.Equal(t, []float64{100, 150, 150, 130}, got)
}

func TestLastNPadding(t *testing.T) {
	series := []float64{0, 0, 7, 8}

	// 두 값만 정의된 시계열에서 3개 요청 → 앞쪽 0 패딩
	got := lastN(series, 2, 3, false)
	assert.Equal(t, []float64{0, 7, 8}, got)

	got = lastN(series, 2, 3, true)
	assert.Equal(t, []float64{8, 7, 0}, got)
}

func TestLastNFullWindow(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, []float64{3, 4, 5}, lastN(series, 0, 3, false))
	assert.Equal(t, []float64{5, 4, 3}, lastN(series, 0, 3, true))
}

func TestLastNNothingDefined(t *testing.T) {
	series := []float64{0, 0}
	assert.Equal(t, []float64{0, 0, 0}, lastN(series, 5, 3, false))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 12.35, roundTo(12.345001, 2))
	assert.Equal(t, 0.0001, roundTo(0.00012, 4))
	assert.Equal(t, -3.0, roundTo(-2.5001, 0))
}
