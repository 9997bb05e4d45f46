package version

import "testing"

func TestBuildInfoString(t *testing.T) {
	cases := []struct {
		in   BuildInfo
		want string
	}{
		{BuildInfo{Version: "dev", Commit: "none"}, "dev (none)"},
		{BuildInfo{Version: "1.2.0", Commit: "abc123", Date: "2024-05-01", Dirty: true}, "1.2.0 (abc123-dirty, 2024-05-01)"},
	}
	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}
