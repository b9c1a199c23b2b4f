package contracts

import "testing"

func TestMarketValid(t *testing.T) {
	if !MarketKR.Valid() || !MarketUS.Valid() {
		t.Error("KR/US must be valid markets")
	}
	if Market("JP").Valid() {
		t.Error("unknown market must be invalid")
	}
}

func TestNormalizeCodeKRZeroPad(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5930", "005930"},   // 앞자리 0 소실 복원
		{"005930", "005930"}, // 이미 6자리
		{"35420", "035420"},
	}
	for _, c := range cases {
		if got := NormalizeCode(MarketKR, c.in); got != c.want {
			t.Errorf("NormalizeCode(KR, %q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeCodeUSUnchanged(t *testing.T) {
	if got := NormalizeCode(MarketUS, "AAPL"); got != "AAPL" {
		t.Errorf("NormalizeCode(US, AAPL) = %q", got)
	}
}
