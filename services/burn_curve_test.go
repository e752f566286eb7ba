package services

import (
	"math"
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestBurnFraction(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want float64
	}{
		{"midnight", at(0, 0), 0},
		{"mid early ramp", at(3, 30), 0.025},
		{"morning threshold", at(7, 0), 0.05},
		{"midday", at(15, 0), 0.51},
		{"plateau start", at(23, 0), 0.97},
		{"late night", at(23, 45), 0.97},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := burnFraction(tt.t)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("burnFraction(%s) = %f, want %f", tt.t.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestBurnFractionMonotonic(t *testing.T) {
	prev := -1.0
	for m := 0; m < 24*60; m += 10 {
		f := burnFraction(at(m/60, m%60))
		if f < prev {
			t.Fatalf("fraction decreased at %02d:%02d: %f < %f", m/60, m%60, f, prev)
		}
		if f < 0 || f > 1 {
			t.Fatalf("fraction out of range at %02d:%02d: %f", m/60, m%60, f)
		}
		prev = f
	}
}

func TestTotalBurned(t *testing.T) {
	// two full days plus the late-night plateau of the third
	got := totalBurned(2100, 3, at(23, 0))
	want := 2100*2 + 2100*0.97
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("totalBurned = %f, want %f", got, want)
	}

	if got := totalBurned(2100, 1, at(23, 0)); math.Abs(got-2100*0.97) > 1e-9 {
		t.Errorf("single day totalBurned = %f, want %f", got, 2100*0.97)
	}
}
