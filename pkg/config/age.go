package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Age is a duration that also accepts a day suffix ("14d").
type Age time.Duration

// Duration returns a as a time.Duration.
func (a Age) Duration() time.Duration {
	return time.Duration(a)
}

// String formats a in days when it is a whole number of days.
func (a Age) String() string {
	d := time.Duration(a)
	if d != 0 && d%(24*time.Hour) == 0 {
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	}
	return d.String()
}

// UnmarshalYAML decodes a scalar with ParseAge.
func (a *Age) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: age must be a scalar", node.Line)
	}
	d, err := ParseAge(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*a = Age(d)
	return nil
}

// MarshalYAML encodes a in the form ParseAge reads back.
func (a Age) MarshalYAML() (any, error) {
	return a.String(), nil
}

// ParseAge parses a Go duration ("336h", "90m") or a number of days ("14d",
// "0.5d"). A bare "0" is accepted.
func ParseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty age")
	}

	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseFloat(days, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("invalid age %q", s)
		}
		return time.Duration(n * float64(24*time.Hour)), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid age %q: %w", s, err)
	}
	return d, nil
}
