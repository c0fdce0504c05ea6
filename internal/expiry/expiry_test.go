package expiry

import (
	"testing"
	"time"
)

// within checks that got is inside [want-eps, want+eps]. The policy calls
// time.Now() itself, so tests allow a small window for execution time.
func within(t *testing.T, got time.Time, want time.Time, eps time.Duration) {
	t.Helper()
	diff := got.Sub(want)
	if diff < -eps || diff > eps {
		t.Errorf("deadline = %v, want %v ± %v", got, want, eps)
	}
}

func TestFor_Durations(t *testing.T) {
	tests := []struct {
		option string
		want   time.Duration
	}{
		{OptionTenMinutes, 10 * time.Minute},
		{Option24Hours, 24 * time.Hour},
		{Option7Days, 7 * 24 * time.Hour},
		{Option30Days, 30 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.option, func(t *testing.T) {
			got := For(tt.option)
			if got == nil {
				t.Fatalf("For(%q) = nil, want a deadline", tt.option)
			}
			within(t, *got, time.Now().Add(tt.want), 2*time.Second)
		})
	}
}

func TestFor_Never(t *testing.T) {
	if got := For(OptionNever); got != nil {
		t.Errorf("For(never) = %v, want nil", got)
	}
}

func TestFor_UnrecognizedDefaultsToNever(t *testing.T) {
	for _, option := range []string{"", "1h", "forever", "10M"} {
		if got := For(option); got != nil {
			t.Errorf("For(%q) = %v, want nil", option, got)
		}
	}
}

func TestRefresh(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got := Refresh(now)
	if got == nil {
		t.Fatal("Refresh() = nil, want a deadline")
	}
	if want := now.Add(RefreshWindow); !got.Equal(want) {
		t.Errorf("Refresh(%v) = %v, want %v", now, *got, want)
	}
}
