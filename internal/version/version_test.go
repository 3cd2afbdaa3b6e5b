package version

import "testing"

func TestString(t *testing.T) {
	info := Info{
		Version:   "v1.2.0",
		GitCommit: "abc1234",
		BuildTime: "2026-08-01T12:00:00Z",
	}

	want := "v1.2.0 (commit: abc1234, built: 2026-08-01T12:00:00Z)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStringZeroValue(t *testing.T) {
	var info Info

	want := " (commit: , built: )"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
