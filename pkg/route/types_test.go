package route

import (
	"math"
	"testing"
)

func TestCorridorKey(t *testing.T) {
	tests := []struct {
		name     string
		corridor []string
		want     string
	}{
		{"empty", nil, ""},
		{"single city", []string{"Jaipur"}, "jaipur"},
		{"ordered and lowercased", []string{"Delhi", "Jaipur", "Ahmedabad"}, "delhi|jaipur|ahmedabad"},
		{"whitespace trimmed", []string{" Delhi ", "Jaipur"}, "delhi|jaipur"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Candidate{Corridor: tt.corridor}
			if got := c.CorridorKey(); got != tt.want {
				t.Errorf("CorridorKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCorridorKeyIsOrderSensitive(t *testing.T) {
	a := Candidate{Corridor: []string{"Delhi", "Jaipur"}}
	b := Candidate{Corridor: []string{"Jaipur", "Delhi"}}
	if a.CorridorKey() == b.CorridorKey() {
		t.Error("corridors with different city order must not collide")
	}
}

func TestEstimateCarbonKg(t *testing.T) {
	// 100 km * 0.8 * 1.2 * 1.0 = 96 kg
	got := EstimateCarbonKg(100_000)
	if math.Abs(got-96.0) > 1e-9 {
		t.Errorf("EstimateCarbonKg(100km) = %f, want 96", got)
	}
}

func TestMetricsAdd(t *testing.T) {
	traveled := Metrics{DurationMin: 60, DistanceM: 80_000, CostMinor: 500_00, CarbonKg: 76.8}
	remaining := Metrics{DurationMin: 90, DistanceM: 120_000, CostMinor: 700_00, CarbonKg: 115.2}

	total := traveled.Add(remaining)
	if total.DurationMin != 150 {
		t.Errorf("DurationMin = %f, want 150", total.DurationMin)
	}
	if total.DistanceM != 200_000 {
		t.Errorf("DistanceM = %f, want 200000", total.DistanceM)
	}
	if total.CostMinor != 1200_00 {
		t.Errorf("CostMinor = %d, want 120000", total.CostMinor)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes float64
		want    string
	}{
		{45, "45m"},
		{60, "1h"},
		{150, "2h 30m"},
		{0, "0m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%f) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	if got := FormatDistance(12_400); got != "12.4 km" {
		t.Errorf("FormatDistance(12400) = %q, want %q", got, "12.4 km")
	}
}
