package version

import (
	"strings"
	"testing"
)

func TestCalculateBuildID(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		expected  int
		wantError bool
	}{
		{
			name:     "epoch date",
			date:     "2025-06-01",
			expected: 0,
		},
		{
			name:     "next day after epoch",
			date:     "2025-06-02",
			expected: 1,
		},
		{
			name:     "one year later",
			date:     "2026-06-01",
			expected: 365,
		},
		{
			name:      "invalid format",
			date:      "invalid",
			wantError: true,
		},
		{
			name:      "empty date",
			date:      "",
			wantError: true,
		},
		{
			name:      "before epoch",
			date:      "2025-05-31",
			wantError: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			old := BuildDate
			defer func() { BuildDate = old }()

			BuildDate = tt.date

			got, err := CalculateBuildID()

			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil (id=%d)", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.expected {
				t.Errorf("CalculateBuildID() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestString_BuildBranding(t *testing.T) {
	old := BuildDate
	defer func() { BuildDate = old }()

	BuildDate = "2025-06-02"
	if got := String(); !strings.HasPrefix(got, "GLOOM build 1 ") {
		t.Errorf("String() = %q, want a GLOOM build 1 prefix", got)
	}

	BuildDate = ""
	if !strings.HasPrefix(String(), "GLOOM build unknown") {
		t.Error("Empty BuildDate must render as an unknown build")
	}
}
