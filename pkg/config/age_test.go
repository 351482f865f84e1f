package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseAge(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"14d", 14 * 24 * time.Hour, false},
		{"0.5d", 12 * time.Hour, false},
		{"336h", 336 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"0", 0, false},
		{"0s", 0, false},
		{" 1d ", 24 * time.Hour, false},
		{"", 0, true},
		{"d", 0, true},
		{"fortnight", 0, true},
		{"NaNd", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAge(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAge(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAge(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestAge_String(t *testing.T) {
	tests := []struct {
		age  Age
		want string
	}{
		{Age(14 * 24 * time.Hour), "14d"},
		{Age(36 * time.Hour), "36h0m0s"},
		{Age(0), "0s"},
	}

	for _, tt := range tests {
		if got := tt.age.String(); got != tt.want {
			t.Errorf("Age(%d).String() = %q, want %q", int64(tt.age), got, tt.want)
		}
	}
}

func TestAge_YAMLRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(struct {
		Age Age `yaml:"age"`
	}{Age(7 * 24 * time.Hour)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var back struct {
		Age Age `yaml:"age"`
	}
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal(%q) error = %v", out, err)
	}
	if back.Age.Duration() != 7*24*time.Hour {
		t.Errorf("round trip = %s", back.Age)
	}
}
