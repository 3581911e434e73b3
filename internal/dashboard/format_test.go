package dashboard

import "testing"

func TestFormatMagnitude(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{99999, "100.0K"},
		{250000, "2.5L"},
		{1500000, "15.0L"},
		{15000000, "1.5Cr"},
		{123456789, "12.3Cr"},
		{-1500, "-1.5K"},
		{-250000, "-2.5L"},
	}
	for _, tt := range tests {
		if got := FormatMagnitude(tt.in); got != tt.want {
			t.Errorf("FormatMagnitude(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSignedMagnitude(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5000, "+5.0K"},
		{0, "0"},
		{-5000, "-5.0K"},
	}
	for _, tt := range tests {
		if got := FormatSignedMagnitude(tt.in); got != tt.want {
			t.Errorf("FormatSignedMagnitude(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatStrike(t *testing.T) {
	if got := FormatStrike(19500); got != "19500" {
		t.Errorf("FormatStrike(19500) = %q, want %q", got, "19500")
	}
	if got := FormatStrike(2457.5); got != "2457.50" {
		t.Errorf("FormatStrike(2457.5) = %q, want %q", got, "2457.50")
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(-0.513); got != "-0.51%" {
		t.Errorf("FormatPercent(-0.513) = %q, want %q", got, "-0.51%")
	}
	if got := FormatPercent(1.024); got != "+1.02%" {
		t.Errorf("FormatPercent(1.024) = %q, want %q", got, "+1.02%")
	}
}
