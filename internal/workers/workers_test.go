package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	available := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		want       int
	}{
		{
			name:       "CPU bound",
			multiplier: 1.0,
			limit:      0,
			want:       available,
		},
		{
			name:       "limit caps count",
			multiplier: 2.0,
			limit:      1,
			want:       1,
		},
		{
			name:       "never below one",
			multiplier: 0.01,
			limit:      0,
			want:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.multiplier, tt.limit)
			if got != tt.want {
				t.Errorf("Count(%v, %d) = %d, want %d", tt.multiplier, tt.limit, got, tt.want)
			}
		})
	}
}

func TestForMixed(t *testing.T) {
	want := int(float64(runtime.GOMAXPROCS(0)) * 1.5)
	if want < 1 {
		want = 1
	}
	if got := ForMixed(0); got != want {
		t.Errorf("ForMixed(0) = %d, want %d", got, want)
	}
	if got := ForMixed(2); got > 2 {
		t.Errorf("ForMixed(2) = %d, want at most 2", got)
	}
}

func TestCountOverride(t *testing.T) {
	t.Setenv("BACKFILL_WORKERS", "3")

	if got := Count(1.0, 0); got != 3 {
		t.Errorf("Count with override = %d, want 3", got)
	}
	if got := Count(1.0, 2); got != 2 {
		t.Errorf("Count with override and limit = %d, want 2", got)
	}
}

func TestCountInvalidOverride(t *testing.T) {
	t.Setenv("BACKFILL_WORKERS", "not-a-number")

	if got := Count(1.0, 0); got != runtime.GOMAXPROCS(0) {
		t.Errorf("Count with invalid override = %d, want %d", got, runtime.GOMAXPROCS(0))
	}
}
