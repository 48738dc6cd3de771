package game

import "testing"

func TestCashMicrosRoundTrip(t *testing.T) {
	tests := []struct {
		cash   float64
		micros int64
	}{
		{cash: 0, micros: 0},
		{cash: 500, micros: 500_000_000},
		{cash: -12.5, micros: -12_500_000},
		{cash: 0.000001, micros: 1},
	}
	for _, tc := range tests {
		if got := CashToMicros(tc.cash); got != tc.micros {
			t.Fatalf("CashToMicros(%f) = %d, want %d", tc.cash, got, tc.micros)
		}
		if got := MicrosToCash(tc.micros); got != tc.cash {
			t.Fatalf("MicrosToCash(%d) = %f, want %f", tc.micros, got, tc.cash)
		}
	}
}

func TestStudioUpgradeCostGrows(t *testing.T) {
	prev := 0.0
	for level := 1; level < MaxStudioLevel; level++ {
		cost := StudioUpgradeCost(level)
		if cost <= prev {
			t.Fatalf("cost at level %d (%f) should exceed previous (%f)", level, cost, prev)
		}
		prev = cost
	}
	if got := StudioUpgradeCost(1); got != 500 {
		t.Fatalf("level 1 upgrade: got %f want 500", got)
	}
}

func TestValidateEntityName(t *testing.T) {
	if err := validateEntityName("Midnight Drive"); err != nil {
		t.Fatalf("expected valid name: %v", err)
	}
	if err := validateEntityName(""); err == nil {
		t.Fatal("expected empty name to fail")
	}
	if err := validateEntityName("admin anthems"); err == nil {
		t.Fatal("expected blocked name to fail")
	}
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nova.Star", "nova_star"},
		{"ab", "artist_ab"},
		{"", "artist"},
		{"this_name_is_way_too_long_for_us", "this_name_is_way_too_lon"},
	}
	for _, tc := range tests {
		if got := sanitizeUsername(tc.in); got != tc.want {
			t.Fatalf("sanitizeUsername(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUsernameFromEmail(t *testing.T) {
	if got := usernameFromEmail("Neon.Rider@example.com"); got != "neon_rider" {
		t.Fatalf("got %q", got)
	}
	if got := usernameFromEmail(""); got != "artist" {
		t.Fatalf("got %q", got)
	}
}
