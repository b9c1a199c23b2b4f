package contracts

import "testing"

func TestRSIAccessorsOldestFirst(t *testing.T) {
	r := &IndicatorRow{RSI3: []float64{30, 40, 50}}

	if got := r.RSILatest(); got != 50 {
		t.Errorf("RSILatest() = %v, want 50", got)
	}
	if got := r.RSI1Ago(); got != 40 {
		t.Errorf("RSI1Ago() = %v, want 40", got)
	}
	if got := r.RSI2Ago(); got != 30 {
		t.Errorf("RSI2Ago() = %v, want 30", got)
	}
}

func TestOBVAccessorsMostRecentFirst(t *testing.T) {
	r := &IndicatorRow{
		OBV3:        []float64{300, 200, 100},
		OBVSignal9:  []float64{250, 150, 50},
		OBVSignal20: []float64{40, 30, 20, 10},
	}

	if got := r.OBVLatest(); got != 300 {
		t.Errorf("OBVLatest() = %v, want 300", got)
	}
	if got := r.OBV1Ago(); got != 200 {
		t.Errorf("OBV1Ago() = %v, want 200", got)
	}
	if got := r.OBVSignal20Latest(); got != 40 {
		t.Errorf("OBVSignal20Latest() = %v, want 40", got)
	}
	if got := r.OBVSignal203Ago(); got != 10 {
		t.Errorf("OBVSignal203Ago() = %v, want 10", got)
	}
}

func TestAccessorsOnEmptyArrays(t *testing.T) {
	r := &IndicatorRow{}

	// 결측 배열 접근은 0으로 떨어져야 한다
	if got := r.RSILatest(); got != 0 {
		t.Errorf("RSILatest() on empty = %v, want 0", got)
	}
	if got := r.MA200Latest(); got != 0 {
		t.Errorf("MA200Latest() on empty = %v, want 0", got)
	}
	if got := r.CloseLatest(); got != 0 {
		t.Errorf("CloseLatest() on empty = %v, want 0", got)
	}
}

func TestFlowSum(t *testing.T) {
	flow := []float64{10, -5, 3, 0, -1}

	if got := FlowSum(flow, 2); got != 5 {
		t.Errorf("FlowSum(2) = %v, want 5", got)
	}
	if got := FlowSum(flow, 5); got != 7 {
		t.Errorf("FlowSum(5) = %v, want 7", got)
	}
	// 배열보다 긴 창은 있는 만큼만 합산
	if got := FlowSum(flow[:2], 5); got != 5 {
		t.Errorf("FlowSum over short array = %v, want 5", got)
	}
	if got := FlowSum(nil, 2); got != 0 {
		t.Errorf("FlowSum(nil) = %v, want 0", got)
	}
}
