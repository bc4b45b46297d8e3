package report

import "testing"

func strPtr(s string) *string { return &s }

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *string
		want string
	}{
		{name: "zulu", in: strPtr("2024-01-15T10:30:00Z"), want: "15.01.2024 10:30:00 UTC"},
		{name: "offset converted to utc", in: strPtr("2024-01-15T10:30:00+01:00"), want: "15.01.2024 09:30:00 UTC"},
		{name: "basic offset", in: strPtr("2024-01-15T10:30:00+0100"), want: "15.01.2024 09:30:00 UTC"},
		{name: "basic offset with space", in: strPtr("2024-01-15 10:30:00-0230"), want: "15.01.2024 13:00:00 UTC"},
		{name: "fractional seconds", in: strPtr("2024-01-15T10:30:00.123456Z"), want: "15.01.2024 10:30:00 UTC"},
		{name: "naive", in: strPtr("2024-01-15T10:30:00"), want: "15.01.2024 10:30:00 UTC"},
		{name: "date only", in: strPtr("2024-01-15"), want: "15.01.2024 00:00:00 UTC"},
		{name: "nil", in: nil, want: "Not set"},
		{name: "empty", in: strPtr(""), want: "Not set"},
		{name: "garbage", in: strPtr("not-a-date"), want: "not-a-date"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatTimestamp(tc.in); got != tc.want {
				t.Fatalf("FormatTimestamp() = %q, want %q", got, tc.want)
			}
		})
	}
}
