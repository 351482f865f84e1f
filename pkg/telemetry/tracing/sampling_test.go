package tracing

import (
	"strings"
	"testing"
)

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		ratio    float64
		wantDesc string
		wantErr  bool
	}{
		{"default", "", 0, "AlwaysOnSampler", false},
		{"always", SamplerAlways, 0, "AlwaysOnSampler", false},
		{"never", SamplerNever, 0, "AlwaysOffSampler", false},
		{"ratio", SamplerRatio, 0.25, "TraceIDRatioBased{0.25}", false},
		{"ratio negative", SamplerRatio, -0.1, "", true},
		{"ratio above one", SamplerRatio, 1.5, "", true},
		{"unknown", "sometimes", 0.5, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if desc := sampler.Description(); !strings.Contains(desc, tt.wantDesc) {
				t.Errorf("Description() = %q, want it to contain %q", desc, tt.wantDesc)
			}
		})
	}
}
