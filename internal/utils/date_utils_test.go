package utils

import (
	"testing"
	"time"
)

func TestValidateDate(t *testing.T) {
	testCases := []struct {
		input         string
		shouldBeValid bool
	}{
		{"", true},
		{"2026-10-19", true},
		{"2024-02-29", true},
		{"2025-02-29", false},
		{"19/10/2026", false},
		{"2026-10-19T10:00:00Z", false},
		{"tomorrow", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			err := ValidateDate(tc.input)
			if tc.shouldBeValid && err != nil {
				t.Errorf("Expected %q to be valid, got %v", tc.input, err)
			}
			if !tc.shouldBeValid && err == nil {
				t.Errorf("Expected %q to be invalid", tc.input)
			}
		})
	}
}

func TestNormalizeClock(t *testing.T) {
	testCases := []struct {
		input         string
		expected      string
		shouldBeValid bool
	}{
		{"", "", true},
		{"00:00", "00:00", true},
		{"16:30", "16:30", true},
		{"9:30", "09:30", true},
		{"24:00", "", false},
		{"9:5", "", false},
		{"16:30:00", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			normalized, err := NormalizeClock(tc.input)
			if tc.shouldBeValid && err != nil {
				t.Errorf("Expected %q to be valid, got %v", tc.input, err)
			}
			if !tc.shouldBeValid && err == nil {
				t.Errorf("Expected %q to be invalid", tc.input)
			}
			if normalized != tc.expected {
				t.Errorf("Expected %q to normalize to %q, got %q", tc.input, tc.expected, normalized)
			}
		})
	}
}

func TestDayOffset(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	// 23:30 UTC on the 19th is already the 20th in Madrid.
	now := time.Date(2026, 10, 19, 23, 30, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		loc      *time.Location
		days     int
		expected string
	}{
		{"utc today", time.UTC, 0, "2026-10-19"},
		{"utc tomorrow", time.UTC, 1, "2026-10-20"},
		{"madrid today", madrid, 0, "2026-10-20"},
		{"madrid day after", madrid, 2, "2026-10-22"},
		{"nil location is utc", nil, 0, "2026-10-19"},
		{"month rollover", time.UTC, 13, "2026-11-01"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DayOffset(now, tc.loc, tc.days)
			if got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestDayOffset_AcrossDST(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	// Clocks go back on 2026-10-25 in Madrid.
	now := time.Date(2026, 10, 24, 0, 15, 0, 0, madrid)
	if got := DayOffset(now, madrid, 2); got != "2026-10-26" {
		t.Errorf("Expected 2026-10-26, got %s", got)
	}
}
