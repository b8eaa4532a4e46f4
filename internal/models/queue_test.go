package models

import "testing"

func TestPriorityRank(t *testing.T) {
	cases := []struct {
		priority string
		rank     int
	}{
		{PriorityEmergency, 1},
		{PriorityUrgent, 2},
		{PriorityNormal, 3},
		{PriorityOther, 4},
		{"", 4},
		{"unknown", 4},
	}

	for _, tt := range cases {
		if got := PriorityRank(tt.priority); got != tt.rank {
			t.Fatalf("PriorityRank(%q)=%d, want %d", tt.priority, got, tt.rank)
		}
	}

	if PriorityRank(PriorityEmergency) >= PriorityRank(PriorityNormal) {
		t.Fatalf("emergency must outrank normal")
	}
}
